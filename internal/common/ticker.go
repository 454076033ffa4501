// Package common provides shared utilities across the application.
package common

import "strings"

// NormalizeTicker canonicalizes a ticker symbol for lookups. Tickers are
// stored uppercase, so "aapl", " AAPL " and "AAPL" all resolve to the
// same record.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
