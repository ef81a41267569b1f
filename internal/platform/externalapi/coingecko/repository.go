package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Aughra/picsou/internal/feature/prices/domain"
	"github.com/Aughra/picsou/internal/feature/prices/domain/entity"
	"github.com/Aughra/picsou/internal/feature/prices/usecase"
	"github.com/Aughra/picsou/internal/platform/externalapi/coingecko/dto"
)

// CoinGeckoMarket fetches prices from the CoinGecko API.
type CoinGeckoMarket struct {
	cfg    Config
	client *http.Client
}

var (
	_ usecase.MarketRepository      = (*CoinGeckoMarket)(nil)
	_ usecase.SimplePriceRepository = (*CoinGeckoMarket)(nil)
)

// NewCoinGeckoMarket returns a client using cfg and the given HTTP client.
func NewCoinGeckoMarket(cfg Config, client *http.Client) *CoinGeckoMarket {
	return &CoinGeckoMarket{cfg: cfg, client: client}
}

// GetMarketChartRange returns the time-ordered prices of coinID between from and to.
// The returned points carry no symbol; the caller assigns it.
func (c *CoinGeckoMarket) GetMarketChartRange(ctx context.Context, coinID string, from, to time.Time) ([]entity.PricePoint, error) {
	q := url.Values{}
	q.Set("vs_currency", c.cfg.VsCurrency)
	q.Set("from", strconv.FormatInt(from.Unix(), 10))
	q.Set("to", strconv.FormatInt(to.Unix(), 10))

	u := fmt.Sprintf("%s/coins/%s/market_chart/range?%s", c.cfg.BaseURL, url.PathEscape(coinID), q.Encode())

	var body dto.MarketChartResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	points := make([]entity.PricePoint, 0, len(body.Prices))
	for _, v := range body.Prices {
		if len(v) < 2 {
			slog.Warn("skipping malformed price entry", "coin", coinID, "entry", v)
			continue
		}
		points = append(points, entity.PricePoint{
			TS:       time.UnixMilli(int64(v[0])).UTC(),
			PriceEUR: v[1],
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].TS.Before(points[j].TS) })
	return points, nil
}

// GetSimplePrice returns the current price of each id. Ids absent from the response are absent from the map.
func (c *CoinGeckoMarket) GetSimplePrice(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", c.cfg.VsCurrency)

	u := fmt.Sprintf("%s/simple/price?%s", c.cfg.BaseURL, q.Encode())

	var body dto.SimplePriceResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(body))
	for id, quotes := range body {
		if p, ok := quotes[c.cfg.VsCurrency]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *CoinGeckoMarket) getJSON(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.cfg.APIKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("coingecko http %d: %w", res.StatusCode, domain.ErrRateLimited)
	}
	if res.StatusCode >= 400 {
		var e dto.ErrorResponse
		if json.NewDecoder(res.Body).Decode(&e) == nil {
			if msg := firstNonEmpty(e.Error, e.Status.ErrorMessage); msg != "" {
				return fmt.Errorf("coingecko http %d: %s", res.StatusCode, msg)
			}
		}
		return fmt.Errorf("coingecko http %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode coingecko response: %w", err)
	}
	return nil
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
