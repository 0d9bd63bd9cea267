package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// analyticsResponse mirrors the 365d install-count endpoints. Counts arrive
// as comma-grouped strings ("1,234,567").
type analyticsResponse struct {
	Items []analyticsItem `json:"items"`
}

type analyticsItem struct {
	Formula string `json:"formula"`
	Cask    string `json:"cask"`
	Count   string `json:"count"`
}

// FetchAnalytics returns the trailing-365-day install counts for the given
// kind, keyed by package name. Items whose count does not parse are skipped
// rather than failing the whole map; analytics are decoration, not data.
func (c *Client) FetchAnalytics(ctx context.Context, kind Kind) (map[string]uint64, error) {
	endpoint := "analytics/install/365d.json"
	if kind == KindCask {
		endpoint = "analytics-linux/cask-install/365d.json"
	}

	var resp analyticsResponse
	if err := c.fetchJSON(ctx, fmt.Sprintf("%s/%s", c.baseURL, endpoint), &resp); err != nil {
		return nil, err
	}

	counts := make(map[string]uint64, len(resp.Items))
	for _, item := range resp.Items {
		name := item.Formula
		if kind == KindCask {
			name = item.Cask
		}
		if name == "" {
			continue
		}

		n, err := strconv.ParseUint(strings.ReplaceAll(item.Count, ",", ""), 10, 64)
		if err != nil {
			c.log.Debug().
				Str("package", name).
				Str("count", item.Count).
				Msg("skipping analytics item with unparseable count")
			continue
		}
		counts[name] = n
	}

	c.log.Debug().
		Ctx(ctx).
		Str("kind", string(kind)).
		Int("packages", len(counts)).
		Msg("fetched install analytics")
	return counts, nil
}
