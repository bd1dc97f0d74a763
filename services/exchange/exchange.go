package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Conversion is the result of converting a local-currency price into the
// settlement currency. The rate actually used is recorded so the invoice can
// pin it forever.
type Conversion struct {
	AmountUSD float64
	AmountMYR float64
	Rate      float64
}

// Converter converts a local-currency (MYR) amount into USD.
type Converter interface {
	Convert(ctx context.Context, amountMYR float64) Conversion
}

// RateAPIConverter fetches a live MYR-per-USD rate from a public exchange
// rate API. On any failure it degrades to the configured fallback rate
// rather than failing the operation: one attempt, no retry.
type RateAPIConverter struct {
	URL          string
	FallbackRate float64
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// NewRateAPIConverter builds a converter with a sane default HTTP timeout.
func NewRateAPIConverter(url string, fallbackRate float64, logger *zap.Logger) *RateAPIConverter {
	return &RateAPIConverter{
		URL:          url,
		FallbackRate: fallbackRate,
		HTTPClient:   &http.Client{Timeout: 5 * time.Second},
		Logger:       logger,
	}
}

type rateAPIResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Convert turns an MYR amount into USD using the live rate when available
// and the fallback rate otherwise. It never fails.
func (c *RateAPIConverter) Convert(ctx context.Context, amountMYR float64) Conversion {
	rate, err := c.fetchRate(ctx)
	if err != nil {
		c.Logger.Warn("exchange: live rate unavailable, using fallback",
			zap.Float64("fallback_rate", c.FallbackRate), zap.Error(err))
		rate = c.FallbackRate
	}
	return Conversion{
		AmountUSD: round2(amountMYR / rate),
		AmountMYR: amountMYR,
		Rate:      rate,
	}
}

// fetchRate fetches the current MYR-per-USD rate.
func (c *RateAPIConverter) fetchRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("building rate request failed: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate API returned status %d", resp.StatusCode)
	}

	var rateResp rateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&rateResp); err != nil {
		return 0, fmt.Errorf("decoding response failed: %w", err)
	}

	rate, ok := rateResp.Rates["MYR"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("exchange rate for MYR not found")
	}
	return rate, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
