package mcp

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/netlens/netlens/internal/netlist"
)

// componentDoc is the indexed shape of one component.
type componentDoc struct {
	Refdes      string `json:"refdes"`
	MPN         string `json:"mpn"`
	Description string `json:"description"`
	Comment     string `json:"comment"`
	Value       string `json:"value"`
}

// ComponentIndex is an in-memory full-text index over a design's
// components, queried by the netlens_search tool. The index lives and dies
// with its cached design; nothing is persisted.
type ComponentIndex struct {
	index bleve.Index
	model *netlist.Netlist
}

// NewComponentIndex indexes every component's MPN, description, comment,
// and value.
func NewComponentIndex(model *netlist.Netlist) (*ComponentIndex, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	for refdes, comp := range model.Components {
		doc := componentDoc{
			Refdes:      refdes,
			MPN:         comp.MPN,
			Description: comp.Description,
			Comment:     comp.Comment,
			Value:       comp.Value,
		}
		if err := index.Index(refdes, doc); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", refdes, err)
		}
	}
	return &ComponentIndex{index: index, model: model}, nil
}

// Search returns up to limit components matching the query, ranked by
// relevance.
func (ci *ComponentIndex) Search(query string, limit int) (*SearchResponse, error) {
	if limit < 1 {
		limit = 10
	}
	q := bleve.NewQueryStringQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := ci.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	out := &SearchResponse{Total: int(res.Total), Results: []ComponentDetail{}}
	for _, hit := range res.Hits {
		comp, ok := ci.model.Components[hit.ID]
		if !ok {
			continue
		}
		out.Results = append(out.Results, componentDetail(hit.ID, comp))
	}
	return out, nil
}

// Close releases the index.
func (ci *ComponentIndex) Close() error {
	return ci.index.Close()
}

func componentDetail(refdes string, comp *netlist.Component) ComponentDetail {
	return ComponentDetail{
		Refdes:      refdes,
		MPN:         comp.MPN,
		Description: comp.Description,
		Comment:     comp.Comment,
		Value:       comp.Value,
		DNS:         netlist.IsDNS(comp),
		Pins:        comp.Pins,
	}
}
