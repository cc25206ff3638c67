// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

const (
	resourceSearchPath = "/resource_search/"
	localSearchPath    = "/local_search/"
)

// Endpoints builds the two requests of a run, in fetch order:
//
//	{base}/resource_search/?affiliation=<domain>&resource_groups=<list>&format=json
//	{base}/local_search/?affiliation=<domain>&localtypes=<list>&format=json
func Endpoints(cfg types.FetchConfig) ([]types.Endpoint, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", cfg.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL %q has no host", cfg.BaseURL)
	}

	localTypes := cfg.LocalTypes
	if len(localTypes) == 0 {
		localTypes = []string{"resource"}
	}

	return []types.Endpoint{
		{
			Slot:        types.SlotTraining,
			URL:         base + resourceSearchPath + "?" + query(cfg.Affiliation, "resource_groups", cfg.ResourceGroups),
			Affiliation: cfg.Affiliation,
		},
		{
			Slot:        types.SlotTrainingLocal,
			URL:         base + localSearchPath + "?" + query(cfg.Affiliation, "localtypes", localTypes),
			Affiliation: cfg.Affiliation,
		},
	}, nil
}

// query keeps the parameter order the API documentation uses instead of the
// sorted order url.Values.Encode produces.
func query(affiliation, selector string, values []string) string {
	var b strings.Builder
	b.WriteString("affiliation=")
	b.WriteString(url.QueryEscape(affiliation))
	b.WriteString("&")
	b.WriteString(selector)
	b.WriteString("=")
	b.WriteString(url.QueryEscape(strings.Join(values, ",")))
	b.WriteString("&format=json")
	return b.String()
}
