package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"oilwatcher/internal/storage"
)

// Options parameterise the OilPriceAPI client.
type Options struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// OilPriceAPI fetches current quotes from the OilPriceAPI price endpoint.
type OilPriceAPI struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewOilPriceAPI constructs a price fetcher.
func NewOilPriceAPI(opts Options, logger zerolog.Logger) *OilPriceAPI {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OilPriceAPI{
		opts:   opts,
		logger: logger.With().Str("component", "price_fetcher").Logger(),
		client: &http.Client{Timeout: timeout},
	}
}

// FetchPrices performs a single request against the price endpoint. Any
// transport, envelope, or field problem fails the whole fetch; there is no
// per-record skipping and no retry.
func (f *OilPriceAPI) FetchPrices(ctx context.Context) ([]storage.PriceQuote, error) {
	if f.opts.URL == "" {
		return nil, errors.New("price api url not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.opts.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if ua := strings.TrimSpace(f.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "oilwatcher/1.0")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request prices: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read price response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}

	var envelope priceEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("parse price response: %w", err)
	}
	if envelope.Status != "success" {
		return nil, fmt.Errorf("price api returned status %q", envelope.Status)
	}
	if envelope.Data == nil {
		return nil, errors.New("price response missing data section")
	}

	quotes := make([]storage.PriceQuote, 0, len(envelope.Data.Prices))
	for i, raw := range envelope.Data.Prices {
		if raw.Code == "" || raw.Name == "" || raw.Price == nil {
			return nil, fmt.Errorf("price record %d missing required fields", i)
		}
		quotes = append(quotes, storage.PriceQuote{
			Code:      raw.Code,
			Name:      raw.Name,
			Price:     *raw.Price,
			Change24h: raw.Change24h,
		})
	}

	f.logger.Debug().Int("quotes", len(quotes)).Msg("prices fetched")
	return quotes, nil
}

type priceEnvelope struct {
	Status string `json:"status"`
	Data   *struct {
		Prices []quotePayload `json:"prices"`
	} `json:"data"`
}

type quotePayload struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Change24h *float64 `json:"change_24h"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("price api error (%d): %s", status, apiErr.Message)
	}
	if len(payload) > 0 {
		return fmt.Errorf("price api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("price api error (%d)", status)
}

var _ PriceFetcher = (*OilPriceAPI)(nil)
