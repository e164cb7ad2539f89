package crawl

import (
	"context"
	"fmt"
)

type area struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Areas []area `json:"areas"`
}

// AreaIDs resolves the configured region names to provider area ids by
// walking the areas tree: find the country by name, then keep its top-level
// regions whose names are in the wanted set.
func (c *Client) AreaIDs(ctx context.Context, areasURL, country string, regions []string) (map[string]string, error) {
	var countries []area
	if err := c.get(ctx, areasURL, nil, &countries); err != nil {
		return nil, err
	}

	var home *area
	for i := range countries {
		if countries[i].Name == country {
			home = &countries[i]
			break
		}
	}
	if home == nil {
		return nil, fmt.Errorf("crawl: country %q not found in areas tree", country)
	}

	wanted := make(map[string]bool, len(regions))
	for _, r := range regions {
		wanted[r] = true
	}

	out := make(map[string]string)
	for _, a := range home.Areas {
		if wanted[a.Name] {
			out[a.ID] = a.Name
		}
	}
	return out, nil
}
