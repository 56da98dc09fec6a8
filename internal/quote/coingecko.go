package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"CoinSentinel/internal/model"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoSource implements Source using the CoinGecko public API.
type CoinGeckoSource struct {
	Client  *http.Client
	BaseURL string
}

// NewCoinGeckoSource creates a CoinGecko client. baseURL may be empty to use
// the public API; proxyURL may be empty for a direct connection.
func NewCoinGeckoSource(baseURL, proxyURL string) *CoinGeckoSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &CoinGeckoSource{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: baseURL,
	}
}

func (c *CoinGeckoSource) Name() string { return "coingecko" }

// GetPrice queries /simple/price. Example response:
// {"bitcoin": {"usd": 60000}}
func (c *CoinGeckoSource) GetPrice(ctx context.Context, coinID, vsCurrency string) (float64, error) {
	u := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		c.BaseURL, url.QueryEscape(coinID), url.QueryEscape(vsCurrency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", model.ErrQuoteUnavailable, err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: read body: %v", model.ErrQuoteUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d, body: %s", model.ErrQuoteUnavailable, resp.StatusCode, string(body))
	}

	var quotes map[string]map[string]float64
	if err := json.Unmarshal(body, &quotes); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", model.ErrQuoteUnavailable, err)
	}

	currencies, ok := quotes[coinID]
	if !ok {
		return 0, fmt.Errorf("%w: no quote for %s", model.ErrQuoteUnavailable, coinID)
	}
	price, ok := currencies[vsCurrency]
	if !ok {
		return 0, fmt.Errorf("%w: no %s quote for %s", model.ErrQuoteUnavailable, vsCurrency, coinID)
	}
	return price, nil
}
