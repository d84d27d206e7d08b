package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockwatch/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func searchPage(sku string) string {
	return fmt.Sprintf(`<html><body>
		<a class="product-title" href="/products/%s">Product %s</a>
	</body></html>`, sku, sku)
}

func productPage(quantities ...int) string {
	options := ""
	for _, q := range quantities {
		options += fmt.Sprintf(`<option value="%d">%d</option>`, q, q)
	}
	return fmt.Sprintf(`<html><body>
		<div class="ProductQty"><select>%s</select></div>
	</body></html>`, options)
}

func newFixtureServer(t *testing.T, pages map[string]string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.php", func(w http.ResponseWriter, r *http.Request) {
		sku := r.URL.Query().Get("search_query")
		page, ok := pages["search:"+sku]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages["product:"+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, page)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestCheckStockInStock(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:storefront")
	defer cleanup()

	server := newFixtureServer(t, map[string]string{
		"search:SKU-1":            searchPage("SKU-1"),
		"product:/products/SKU-1": productPage(0, 1, 2),
	})
	client := newTestClient(t, server)

	obs, err := client.CheckStock(context.Background(), "SKU-1")
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, obs.OutOfStock)
	require.Equal(t, "SKU-1", obs.Sku)
	require.Contains(t, obs.ProductUrl, "/products/SKU-1")
}

func TestCheckStockOutOfStock(t *testing.T) {
	server := newFixtureServer(t, map[string]string{
		"search:SKU-2":            searchPage("SKU-2"),
		"product:/products/SKU-2": productPage(0),
	})
	client := newTestClient(t, server)

	obs, err := client.CheckStock(context.Background(), "SKU-2")
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, obs.OutOfStock)
}

func TestCheckStockDirectResultPage(t *testing.T) {
	// some storefronts render the product page straight from search
	// without an intermediate product link
	server := newFixtureServer(t, map[string]string{
		"search:SKU-3": productPage(4),
	})
	client := newTestClient(t, server)

	obs, err := client.CheckStock(context.Background(), "SKU-3")
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, obs.OutOfStock)
}

func TestCheckStockMissingIndicator(t *testing.T) {
	server := newFixtureServer(t, map[string]string{
		"search:SKU-4": `<html><body>no results</body></html>`,
	})
	client := newTestClient(t, server)

	_, err := client.CheckStock(context.Background(), "SKU-4")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "SKU-4", parseErr.Sku)
}

func TestCheckStockFetchFailure(t *testing.T) {
	server := newFixtureServer(t, nil)
	client := newTestClient(t, server)
	server.Close()

	_, err := client.CheckStock(context.Background(), "SKU-5")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}

func TestCheckStockHttpError(t *testing.T) {
	server := newFixtureServer(t, nil)
	client := newTestClient(t, server)

	_, err := client.CheckStock(context.Background(), "unknown-sku")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}
