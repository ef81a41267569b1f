// Package dto defines data transfer objects for the CoinGecko API responses.
package dto

// MarketChartResponse represents the JSON response of /coins/{id}/market_chart/range.
// Each price entry is [unix milliseconds, price].
type MarketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// SimplePriceResponse represents the JSON response of /simple/price: id -> currency -> price.
type SimplePriceResponse map[string]map[string]float64

// ErrorResponse is the body CoinGecko returns on most failures.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}
