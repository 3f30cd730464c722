// Package mcp exposes the netlens decoders and trace engine to AI agents as
// MCP tools over stdio: netlens_trace for XNET traversal, netlens_nets for
// model listings, and netlens_search for component lookup.
package mcp

import (
	"github.com/netlens/netlens/internal/netlist"
)

// TraceRequest is the netlens_trace tool's parameter set.
type TraceRequest struct {
	Design     string   `json:"design"`      // absolute path to the design file
	Operation  string   `json:"operation"`   // "net" or "pin"
	Target     string   `json:"target"`      // net name or REFDES.PIN
	SkipTypes  []string `json:"skip_types"`  // refdes prefixes to exclude
	IncludeDNS bool     `json:"include_dns"` // admit do-not-stuff components
}

// NetsRequest is the netlens_nets tool's parameter set.
type NetsRequest struct {
	Design string `json:"design"`
	Filter string `json:"filter"` // optional substring filter on net names
	Refdes string `json:"refdes"` // optional: return one component's detail instead
}

// NetsResponse lists a design's nets or one component's detail.
type NetsResponse struct {
	Nets      []NetSummary     `json:"nets,omitempty"`
	Component *ComponentDetail `json:"component,omitempty"`
}

// NetSummary is one net with its endpoint count.
type NetSummary struct {
	Name     string `json:"name"`
	PinCount int    `json:"pin_count"`
}

// ComponentDetail is the netlens_nets per-component answer.
type ComponentDetail struct {
	Refdes      string                      `json:"refdes"`
	MPN         string                      `json:"mpn,omitempty"`
	Description string                      `json:"description,omitempty"`
	Comment     string                      `json:"comment,omitempty"`
	Value       string                      `json:"value,omitempty"`
	DNS         bool                        `json:"dns,omitempty"`
	Pins        map[string]netlist.PinEntry `json:"pins"`
}

// SearchRequest is the netlens_search tool's parameter set.
type SearchRequest struct {
	Design string `json:"design"`
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
}

// SearchResponse carries ranked component matches.
type SearchResponse struct {
	Results []ComponentDetail `json:"results"`
	Total   int               `json:"total"`
}
