package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/artshop/internal/models"
)

func newTestIndex(t *testing.T, h http.HandlerFunc) *ESIndex {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &ESIndex{Client: client, Index: "products"}
}

func TestESIndex_Search(t *testing.T) {
	t.Parallel()

	var got map[string]any
	ix := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/products/_search"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":7},"hits":[{"_id":"a"},{"_id":"b"}]}}`)
	})

	total, ids, err := ix.Search(context.Background(), "dragon", 10, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.EqualValues(t, 10, got["from"])
	assert.EqualValues(t, 2, got["size"])
}

func TestESIndex_IndexProduct(t *testing.T) {
	t.Parallel()

	var path string
	var doc document
	ix := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &doc)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	p := models.Product{ID: "abc", Name: "mug", Category: "公仔", Sell: true, User: models.Owner{ID: "u1"}}
	require.NoError(t, ix.IndexProduct(context.Background(), p))
	assert.Equal(t, "/products/_doc/abc", path)
	assert.Equal(t, "mug", doc.Name)
	assert.Equal(t, "u1", doc.OwnerID)
	assert.True(t, doc.Sell)
}

func TestESIndex_SearchError(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	_, _, err := ix.Search(context.Background(), "x", 0, 10)
	assert.Error(t, err)
}
