// Package symbols holds the static registry of tracked NSE stocks.
package symbols

import (
	"strings"

	"stockgraph/pkg/model"
)

// nseSuffix is the exchange suffix used by the market data source for NSE listings
const nseSuffix = ".NS"

// Registry is the immutable list of tracked stocks, loaded once at process start.
// Order is significant: the live-data and top-movers endpoints take prefixes of it.
var Registry = []model.Stock{
	// NIFTY 50 companies
	{Symbol: "RELIANCE.NS", Name: "Reliance Industries", Sector: "Energy"},
	{Symbol: "TCS.NS", Name: "Tata Consultancy Services", Sector: "Technology"},
	{Symbol: "HDFCBANK.NS", Name: "HDFC Bank", Sector: "Finance"},
	{Symbol: "INFY.NS", Name: "Infosys", Sector: "Technology"},
	{Symbol: "ICICIBANK.NS", Name: "ICICI Bank", Sector: "Finance"},
	{Symbol: "HINDUNILVR.NS", Name: "Hindustan Unilever", Sector: "Consumer Goods"},
	{Symbol: "ITC.NS", Name: "ITC Limited", Sector: "Consumer Goods"},
	{Symbol: "SBIN.NS", Name: "State Bank of India", Sector: "Finance"},
	{Symbol: "BHARTIARTL.NS", Name: "Bharti Airtel", Sector: "Telecom"},
	{Symbol: "KOTAKBANK.NS", Name: "Kotak Mahindra Bank", Sector: "Finance"},
	{Symbol: "LT.NS", Name: "Larsen & Toubro", Sector: "Infrastructure"},
	{Symbol: "AXISBANK.NS", Name: "Axis Bank", Sector: "Finance"},
	{Symbol: "ASIANPAINT.NS", Name: "Asian Paints", Sector: "Materials"},
	{Symbol: "MARUTI.NS", Name: "Maruti Suzuki", Sector: "Automotive"},
	{Symbol: "BAJFINANCE.NS", Name: "Bajaj Finance", Sector: "Finance"},
	{Symbol: "HCLTECH.NS", Name: "HCL Technologies", Sector: "Technology"},
	{Symbol: "WIPRO.NS", Name: "Wipro", Sector: "Technology"},
	{Symbol: "ULTRACEMCO.NS", Name: "UltraTech Cement", Sector: "Materials"},
	{Symbol: "TITAN.NS", Name: "Titan Company", Sector: "Consumer Goods"},
	{Symbol: "SUNPHARMA.NS", Name: "Sun Pharmaceutical", Sector: "Pharma"},
	{Symbol: "TECHM.NS", Name: "Tech Mahindra", Sector: "Technology"},
	{Symbol: "NESTLEIND.NS", Name: "Nestle India", Sector: "Consumer Goods"},
	{Symbol: "NTPC.NS", Name: "NTPC", Sector: "Energy"},
	{Symbol: "POWERGRID.NS", Name: "Power Grid Corporation", Sector: "Energy"},
	{Symbol: "M&M.NS", Name: "Mahindra & Mahindra", Sector: "Automotive"},
	{Symbol: "TATAMOTORS.NS", Name: "Tata Motors", Sector: "Automotive"},
	{Symbol: "BAJAJFINSV.NS", Name: "Bajaj Finserv", Sector: "Finance"},
	{Symbol: "ONGC.NS", Name: "Oil & Natural Gas Corporation", Sector: "Energy"},
	{Symbol: "COALINDIA.NS", Name: "Coal India", Sector: "Energy"},
	{Symbol: "DRREDDY.NS", Name: "Dr. Reddy's Laboratories", Sector: "Pharma"},
	{Symbol: "DIVISLAB.NS", Name: "Divi's Laboratories", Sector: "Pharma"},
	{Symbol: "ADANIPORTS.NS", Name: "Adani Ports", Sector: "Infrastructure"},
	{Symbol: "CIPLA.NS", Name: "Cipla", Sector: "Pharma"},
	{Symbol: "BRITANNIA.NS", Name: "Britannia Industries", Sector: "Consumer Goods"},
	{Symbol: "INDUSINDBK.NS", Name: "IndusInd Bank", Sector: "Finance"},
	{Symbol: "JSWSTEEL.NS", Name: "JSW Steel", Sector: "Materials"},
	{Symbol: "TATASTEEL.NS", Name: "Tata Steel", Sector: "Materials"},
	{Symbol: "HINDALCO.NS", Name: "Hindalco Industries", Sector: "Materials"},
	{Symbol: "GRASIM.NS", Name: "Grasim Industries", Sector: "Materials"},
	{Symbol: "APOLLOHOSP.NS", Name: "Apollo Hospitals", Sector: "Healthcare"},
	{Symbol: "EICHERMOT.NS", Name: "Eicher Motors", Sector: "Automotive"},
	{Symbol: "HEROMOTOCO.NS", Name: "Hero MotoCorp", Sector: "Automotive"},
	{Symbol: "BAJAJ-AUTO.NS", Name: "Bajaj Auto", Sector: "Automotive"},
	{Symbol: "SHREECEM.NS", Name: "Shree Cement", Sector: "Materials"},
	{Symbol: "ADANIENT.NS", Name: "Adani Enterprises", Sector: "Infrastructure"},
	{Symbol: "BPCL.NS", Name: "Bharat Petroleum", Sector: "Energy"},
	{Symbol: "TATACONSUM.NS", Name: "Tata Consumer Products", Sector: "Consumer Goods"},
	{Symbol: "SBILIFE.NS", Name: "SBI Life Insurance", Sector: "Finance"},
	{Symbol: "HDFCLIFE.NS", Name: "HDFC Life Insurance", Sector: "Finance"},
	{Symbol: "IOC.NS", Name: "Indian Oil Corporation", Sector: "Energy"},
}

// All returns every tracked stock in registry order
func All() []model.Stock {
	return Registry
}

// Find returns the stock for an exchange-suffixed symbol
func Find(symbol string) (model.Stock, bool) {
	for _, s := range Registry {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return model.Stock{}, false
}

// BySector returns all stocks tagged with the given sector
func BySector(sector string) []model.Stock {
	var out []model.Stock
	for _, s := range Registry {
		if s.Sector == sector {
			out = append(out, s)
		}
	}
	return out
}

// Sectors returns the distinct sector tags in first-seen order
func Sectors() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range Registry {
		if !seen[s.Sector] {
			seen[s.Sector] = true
			out = append(out, s.Sector)
		}
	}
	return out
}

// Normalize appends the NSE suffix to a bare ticker.
// Already-suffixed symbols pass through unchanged.
func Normalize(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if strings.Contains(ticker, nseSuffix) {
		return ticker
	}
	return ticker + nseSuffix
}
