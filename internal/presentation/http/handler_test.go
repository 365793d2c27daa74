package httppresentation_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	appcart "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/application/cart"
	appcatalog "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/application/catalog"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/id"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/infrastructure/memory"
	httppresentation "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/presentation/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	categories := memory.NewCategoryRepository()
	products := memory.NewProductRepository()
	carts := memory.NewCartRepository()
	catalogSvc := appcatalog.NewService(categories, products, id.NewUUIDGenerator(), nil)
	cartSvc := appcart.NewService(carts, products, nil)
	return httppresentation.NewHandler(catalogSvc, cartSvc, nil).Router()
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHandler_CategoryCreateAndList(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/categories", map[string]any{
		"name": "Electronics & Gadgets",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "electronics-gadgets", created["slug"])

	rec = doJSON(t, router, http.MethodPost, "/categories", map[string]any{
		"name": "Electronics & Gadgets",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[map[string]any](t, rec)
	assert.Equal(t, "electronics-gadgets-1", second["slug"])

	rec = doJSON(t, router, http.MethodGet, "/categories/list", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	assert.Len(t, list, 2)
}

func TestHandler_ValidationAndStatusMapping(t *testing.T) {
	router := newTestRouter()

	// Empty name → 400.
	rec := doJSON(t, router, http.MethodPost, "/categories", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown product detail → 404.
	rec = doJSON(t, router, http.MethodGet, "/products/detail?category_slug=x&product_slug=y", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Explicit slug collision → 409.
	rec = doJSON(t, router, http.MethodPost, "/categories", map[string]any{"name": "A", "slug": "dup"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/categories", map[string]any{"name": "B", "slug": "dup"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Wrong method → 405.
	rec = doJSON(t, router, http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_CartFlow(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/categories", map[string]any{"name": "Shoes"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/products", map[string]any{
		"product_name": "Air Max", "price": 500, "stock": 3, "category_slug": "shoes",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productA := decode[map[string]any](t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/products", map[string]any{
		"product_name": "Beanie", "price": 1500, "stock": 9, "category_slug": "shoes",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	productB := decode[map[string]any](t, rec)["id"].(string)

	// 2 × productA + 1 × productB.
	for i := 0; i < 2; i++ {
		rec = doJSON(t, router, http.MethodPost, "/cart/add_item", map[string]any{
			"cart_code": "cart-1", "product_id": productA,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodPost, "/cart/add_item", map[string]any{
		"cart_code": "cart-1", "product_id": productB,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/cart/summary?cart_code=cart-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[map[string]any](t, rec)
	assert.Equal(t, float64(3), summary["num_of_items"])
	assert.Equal(t, float64(2500), summary["total_price"])

	rec = doJSON(t, router, http.MethodGet, "/cart/details?cart_code=cart-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	details := decode[map[string]any](t, rec)
	assert.Len(t, details["items"], 2)

	target := fmt.Sprintf("/cart/item_in_cart?cart_code=cart-1&product_id=%s", productA)
	rec = doJSON(t, router, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", string(bytes.TrimSpace(rec.Body.Bytes())))

	rec = doJSON(t, router, http.MethodPost, "/cart/remove_item", map[string]any{
		"cart_code": "cart-1", "product_id": productA,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", string(bytes.TrimSpace(rec.Body.Bytes())))

	// Unknown cart summary → 404; unknown cart existence → false.
	rec = doJSON(t, router, http.MethodGet, "/cart/summary?cart_code=ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/cart/item_in_cart?cart_code=ghost&product_id=x", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", string(bytes.TrimSpace(rec.Body.Bytes())))

	// Pay once, then everything mutating conflicts.
	rec = doJSON(t, router, http.MethodPost, "/cart/pay", map[string]any{"cart_code": "cart-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/cart/pay", map[string]any{"cart_code": "cart-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/cart/add_item", map[string]any{
		"cart_code": "cart-1", "product_id": productB,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
