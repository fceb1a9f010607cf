package pse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angas/rceprice/hours"
	"github.com/angas/rceprice/types"
	"golang.org/x/text/encoding/charmap"
)

// Pse reads the RCE market price published by PSE, one quote per 15 minutes.
type Pse struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func New(baseURL string, timeout time.Duration) *Pse {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Pse{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  slog.Default().With("module", "pse"),
	}
}

func (p *Pse) GetDayPrices(ctx context.Context, day time.Time) ([]types.RawPrice, error) {
	q := url.Values{}
	q.Set("$filter", fmt.Sprintf("doba eq '%s'", hours.FormatDate(day)))
	u := p.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data rceResponse
	if err := json.NewDecoder(bodyReader(resp)).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	prices := make([]types.RawPrice, 0, len(data.Value))
	for _, v := range data.Value {
		prices = append(prices, types.RawPrice{Period: v.Period, Price: v.Price})
	}

	p.logger.Debug("fetched rce prices", slog.String("day", hours.FormatDate(day)), slog.Int("entries", len(prices)))
	return prices, nil
}

// The API has historically answered in ISO-8859-2 without saying so, only
// a declared UTF-8 charset is trusted.
func bodyReader(resp *http.Response) io.Reader {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err == nil && strings.EqualFold(params["charset"], "utf-8") {
		return resp.Body
	}
	return charmap.ISO8859_2.NewDecoder().Reader(resp.Body)
}
