package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"booking-workers/internal/compatibility"
)

var ErrMissingIndex = errors.New("index name is required")

// VenueQuery filters the candidate set before scoring.
type VenueQuery struct {
	Index       string
	City        string
	MinCapacity int
	Size        int
}

// VenueDocument is a venue as indexed for search.
type VenueDocument struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
	compatibility.Venue
}

type SearchResult struct {
	Venues    []VenueDocument
	TotalHits int
	Took      int
}

// BuildVenueSearch builds the candidate search request.
func BuildVenueSearch(q VenueQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}

	filters := []interface{}{}
	if q.City != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"city.keyword": q.City},
		})
	}
	if q.MinCapacity > 0 {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"capacity": map[string]interface{}{"gte": q.MinCapacity},
			},
		})
	}

	boolQuery := map[string]interface{}{
		"must": []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}},
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	size := q.Size
	return &esapi.SearchRequest{
		Index: []string{q.Index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}, nil
}

type searchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string        `json:"_id"`
			Source VenueDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// DecodeSearch reads a successful search response body.
func DecodeSearch(body io.Reader) (*SearchResult, error) {
	var r searchResponse
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &SearchResult{
		TotalHits: r.Hits.Total.Value,
		Took:      r.Took,
		Venues:    make([]VenueDocument, 0, len(r.Hits.Hits)),
	}
	for _, hit := range r.Hits.Hits {
		doc := hit.Source
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		result.Venues = append(result.Venues, doc)
	}
	return result, nil
}
