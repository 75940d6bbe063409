package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"stockgraph/internal/ai"
	"stockgraph/internal/config"
	"stockgraph/internal/predictor"
	"stockgraph/internal/provider"
	"stockgraph/internal/symbols"
	"stockgraph/internal/web"
	"stockgraph/pkg/model"
)

var (
	cfgFile string
	port    int
	format  string
)

func main() {
	// Local .env is optional; real deployments set the environment directly
	godotenv.Load(".env")

	rootCmd := &cobra.Command{
		Use:   "stockgraph",
		Short: "Stock market API with price predictions and AI insights",
		Long: `StockGraph serves live NSE stock data with predicted price signals
and AI-generated market commentary over HTTP and WebSocket.

Examples:
  stockgraph serve
  stockgraph serve --port 9000
  stockgraph scan --format json`,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket API server",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch live quotes for every tracked stock and print a summary",
		RunE:  runScan,
	}
	scanCmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	rootCmd.AddCommand(serveCmd, scanCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildProvider assembles the quote source: Yahoo first, Finnhub as backup
// when a key is configured, the whole chain behind a TTL cache.
func buildProvider(cfg *config.Config) provider.Provider {
	providers := []provider.Provider{
		provider.NewYahooProvider(cfg.Market.RateLimit),
	}
	if cfg.API.Finnhub.Key != "" {
		providers = append(providers, provider.NewFinnhubProvider(cfg.API.Finnhub.Key, cfg.API.Finnhub.RateLimit))
	}

	chain := provider.NewFallbackProvider(providers...)
	if cfg.Market.CacheTTL <= 0 {
		return chain
	}
	return provider.NewCachingProvider(chain, cfg.Market.CacheTTL)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	server := web.NewServer(
		cfg,
		buildProvider(cfg),
		ai.NewAdvisor(cfg.API.Gemini.Key),
		predictor.New(cfg.Predictor.Mode, cfg.Predictor.ModelPath, predictor.SingleBand),
		predictor.New(cfg.Predictor.Mode, cfg.Predictor.ModelPath, predictor.RankingBand),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigChan:
		fmt.Printf("\nReceived %s, shutting down...\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	p := buildProvider(cfg)
	stocks := symbols.All()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted. Stopping scan...")
		cancel()
	}()

	bar := progressbar.NewOptions(len(stocks),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Fetching"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	startTime := time.Now()
	var quotes []*model.Quote

	for i, stock := range stocks {
		select {
		case <-ctx.Done():
			bar.Finish()
			fmt.Println("\nScan interrupted")
			return nil
		default:
		}

		quote, err := p.GetQuote(ctx, stock.Symbol)
		if err == nil {
			quotes = append(quotes, quote)
		}
		bar.Set(i + 1)
	}

	bar.Finish()
	fmt.Println()

	// Biggest movers first
	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].ChangePercent > quotes[j].ChangePercent
	})

	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(quotes)
	}
	return outputQuoteTable(quotes, len(stocks), time.Since(startTime))
}

func outputQuoteTable(quotes []*model.Quote, totalScanned int, scanTime time.Duration) error {
	if len(quotes) == 0 {
		fmt.Println("No quotes available.")
		fmt.Printf("Scanned %d stocks in %s\n", totalScanned, scanTime.Round(time.Second))
		return nil
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Symbol", "Name", "Price", "Change", "Change %", "Volume"}),
	)

	for _, q := range quotes {
		name := q.Name
		if len(name) > 24 {
			name = name[:24] + "..."
		}

		table.Append([]string{
			q.Symbol,
			name,
			fmt.Sprintf("%.2f", q.CurrentPrice),
			fmt.Sprintf("%+.2f", q.Change),
			fmt.Sprintf("%+.2f%%", q.ChangePercent),
			fmt.Sprintf("%d", q.Volume),
		})
	}

	table.Render()

	fmt.Printf("\nFetched %d of %d stocks in %s\n", len(quotes), totalScanned, scanTime.Round(time.Second))
	return nil
}
