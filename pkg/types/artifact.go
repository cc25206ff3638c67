// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "net/url"

// Slot names one artifact file in the artifact store.
type Slot string

const (
	// SlotTraining holds the resource_search response.
	SlotTraining Slot = "training"
	// SlotTrainingLocal holds the local_search response.
	SlotTrainingLocal Slot = "training_local"
)

// Slots returns the artifact slots in fetch order.
func Slots() []Slot {
	return []Slot{SlotTraining, SlotTrainingLocal}
}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	return s == SlotTraining || s == SlotTrainingLocal
}

// FileName returns the artifact file name for s, e.g. "uiuc_training_local.json".
func (s Slot) FileName(prefix string) string {
	return prefix + "_" + string(s) + ".json"
}

// Endpoint is one remote request whose body fills an artifact slot.
type Endpoint struct {
	// Slot receives the response body.
	Slot Slot `json:"slot" yaml:"slot"`

	// URL is the fully built request URL, query included.
	URL string `json:"url" yaml:"url"`

	// Affiliation is repeated here so the fetcher can send it as a header.
	Affiliation string `json:"affiliation" yaml:"affiliation"`
}

// Query returns the parsed query parameters of the endpoint URL.
func (e Endpoint) Query() url.Values {
	u, err := url.Parse(e.URL)
	if err != nil {
		return url.Values{}
	}
	return u.Query()
}
