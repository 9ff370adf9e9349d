package queries

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVenueSearch(t *testing.T) {
	_, err := BuildVenueSearch(VenueQuery{})
	assert.ErrorIs(t, err, ErrMissingIndex)

	req, err := BuildVenueSearch(VenueQuery{Index: "venues", Size: 50})
	require.NoError(t, err)
	assert.Equal(t, []string{"venues"}, req.Index)
	assert.Equal(t, 50, *req.Size)

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.NotContains(t, boolQuery, "filter")
}

func TestBuildVenueSearch_Filters(t *testing.T) {
	req, err := BuildVenueSearch(VenueQuery{Index: "venues", City: "Provo", MinCapacity: 250, Size: 10})
	require.NoError(t, err)

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"city.keyword":"Provo"`)
	assert.Contains(t, string(raw), `"capacity":{"gte":250}`)
}

func TestDecodeSearch(t *testing.T) {
	body := `{"took":3,"hits":{"total":{"value":1},"hits":[
		{"_id":"venue-9","_source":{"name":"The Depot","capacity":1200,"age_restrictions":["21+"],"has_house_drums":false}}
	]}}`

	result, err := DecodeSearch(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Took)
	assert.Equal(t, 1, result.TotalHits)
	require.Len(t, result.Venues, 1)

	doc := result.Venues[0]
	assert.Equal(t, "venue-9", doc.ID)
	assert.Equal(t, 1200, *doc.Capacity)
	assert.Equal(t, []string{"21+"}, doc.AgeRestrictions)
	require.NotNil(t, doc.HasHouseDrums)
	assert.False(t, *doc.HasHouseDrums)

	_, err = DecodeSearch(strings.NewReader(`{"hits":`))
	assert.Error(t, err)
}
