package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	appcart "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/application/cart"
	appcatalog "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/application/catalog"
	domaincart "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/cart"
	domaincatalog "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/catalog"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/observability"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
)

type Handler struct {
	catalogService *appcatalog.Service
	cartService    *appcart.Service
	log            observability.Logger

	reqCounter   observability.Counter
	durHistogram observability.Histogram
}

func NewHandler(catalogSvc *appcatalog.Service, cartSvc *appcart.Service, tel observability.Observability) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Handler{
		catalogService: catalogSvc,
		cartService:    cartSvc,
		log:            tel.Logger().With(observability.F("component", componentHTTPHandler)),
		reqCounter:     tel.Metrics().Counter(observability.MHTTPRequests),
		durHistogram:   tel.Metrics().Histogram(observability.MHTTPRequestDuration),
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	h.muxHandle(mux, http.MethodGet, "/slug/assign", h.handleAssignSlug)
	h.muxHandle(mux, http.MethodPost, "/categories", h.handleCreateCategory)
	h.muxHandle(mux, http.MethodGet, "/categories/list", h.handleListCategories)
	h.muxHandle(mux, http.MethodPost, "/products", h.handleCreateProduct)
	h.muxHandle(mux, http.MethodGet, "/products/list", h.handleListProducts)
	h.muxHandle(mux, http.MethodGet, "/products/detail", h.handleProductDetail)
	h.muxHandle(mux, http.MethodPost, "/cart/add_item", h.handleAddCartItem)
	h.muxHandle(mux, http.MethodGet, "/cart/item_in_cart", h.handleItemInCart)
	h.muxHandle(mux, http.MethodGet, "/cart/summary", h.handleCartSummary)
	h.muxHandle(mux, http.MethodGet, "/cart/details", h.handleCartDetails)
	h.muxHandle(mux, http.MethodPost, "/cart/remove_item", h.handleRemoveCartItem)
	h.muxHandle(mux, http.MethodPost, "/cart/pay", h.handleMarkCartPaid)
	h.muxHandle(mux, http.MethodGet, "/health", h.handleHealth)

	return mux
}

func (h *Handler) muxHandle(mux *http.ServeMux, method, route string, handler http.HandlerFunc) {
	mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		// Store stable route template for low-cardinality labels
		ctx := contextWithRoute(r.Context(), route)
		r = r.WithContext(ctx)

		// Wrap: Trace → Request logger → Metrics → Access log → Handler
		wrapped := h.withTrace(
			RequestScopeMiddleware(
				h.log,
				func(r *http.Request) string { return r.Header.Get(headerRequestID) },
			)(
				h.withAccessLog(
					h.withHTTPMetrics(http.HandlerFunc(handler)),
				),
			),
		)
		wrapped.ServeHTTP(w, r)
	})
}

func (h *Handler) handleAssignSlug(w http.ResponseWriter, r *http.Request) {
	kind := appcatalog.EntryKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = appcatalog.KindCategory
	}
	slug, err := h.catalogService.AssignSlug(r.Context(), kind, r.URL.Query().Get("name"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"slug": slug})
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

type categoryResponse struct {
	Name        string `json:"category_name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), appcatalog.CreateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImagePath:   req.Image,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, toCategoryResponse(category))
	}
	writeJSON(w, http.StatusOK, out)
}

type createProductRequest struct {
	Name        string   `json:"product_name"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Image       string   `json:"image,omitempty"`
	Stock       int      `json:"stock"`
	Colors      []string `json:"available_colors,omitempty"`
	Sizes       []string `json:"available_sizes,omitempty"`
	Category    string   `json:"category_slug"`
}

type productResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"product_name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Price       int64    `json:"price"`
	Stock       int      `json:"stock"`
	Colors      []string `json:"available_colors,omitempty"`
	Sizes       []string `json:"available_sizes,omitempty"`
	Category    string   `json:"category_slug"`
}

type productDetailResponse struct {
	productResponse
	Similar []productResponse `json:"similar_products"`
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), appcatalog.CreateProductInput{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        req.Price,
		ImagePath:    req.Image,
		Stock:        req.Stock,
		Colors:       req.Colors,
		Sizes:        req.Sizes,
		CategorySlug: req.Category,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []*domaincatalog.Product
		err      error
	)
	if query := r.URL.Query().Get("query"); query != "" {
		products, err = h.catalogService.SearchProducts(r.Context(), query)
	} else {
		products, err = h.catalogService.ListProducts(r.Context(), r.URL.Query().Get("category"))
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, product := range products {
		out = append(out, toProductResponse(product))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleProductDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalogService.ProductDetails(
		r.Context(),
		r.URL.Query().Get("category_slug"),
		r.URL.Query().Get("product_slug"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := productDetailResponse{
		productResponse: toProductResponse(detail.Product),
		Similar:         make([]productResponse, 0, len(detail.Similar)),
	}
	for _, product := range detail.Similar {
		resp.Similar = append(resp.Similar, toProductResponse(product))
	}
	writeJSON(w, http.StatusOK, resp)
}

type addCartItemRequest struct {
	CartCode  string `json:"cart_code"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

type lineItemResponse struct {
	Product   productResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	ItemPrice int64           `json:"item_price"`
}

type cartResponse struct {
	CartCode   string             `json:"cart_code"`
	Paid       bool               `json:"paid"`
	Items      []lineItemResponse `json:"items"`
	TotalPrice int64              `json:"total_price"`
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := h.cartService.AddItem(r.Context(), appcart.AddItemInput{
		CartCode:  req.CartCode,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLineItemResponse(item))
}

func (h *Handler) handleItemInCart(w http.ResponseWriter, r *http.Request) {
	exists, err := h.cartService.ItemExists(
		r.Context(),
		r.URL.Query().Get("cart_code"),
		r.URL.Query().Get("product_id"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exists)
}

type cartSummaryResponse struct {
	CartCode   string `json:"cart_code"`
	NumOfItems int    `json:"num_of_items"`
	TotalPrice int64  `json:"total_price"`
}

func (h *Handler) handleCartSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cartService.Summary(r.Context(), r.URL.Query().Get("cart_code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartSummaryResponse{
		CartCode:   summary.CartCode,
		NumOfItems: summary.ItemCount,
		TotalPrice: summary.TotalPrice,
	})
}

func (h *Handler) handleCartDetails(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartService.Details(r.Context(), r.URL.Query().Get("cart_code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

type removeCartItemRequest struct {
	CartCode  string `json:"cart_code"`
	ProductID string `json:"product_id"`
}

func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req removeCartItemRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := h.cartService.RemoveItem(r.Context(), req.CartCode, req.ProductID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

type markCartPaidRequest struct {
	CartCode string `json:"cart_code"`
}

func (h *Handler) handleMarkCartPaid(w http.ResponseWriter, r *http.Request) {
	var req markCartPaidRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := h.cartService.MarkPaid(r.Context(), req.CartCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func toCategoryResponse(category *domaincatalog.Category) categoryResponse {
	return categoryResponse{
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}
}

func toProductResponse(product *domaincatalog.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Colors:      product.Colors,
		Sizes:       product.Sizes,
		Category:    product.CategorySlug,
	}
}

func toLineItemResponse(item *appcart.LineItemView) lineItemResponse {
	return lineItemResponse{
		Product:   toProductResponse(item.Product),
		Quantity:  item.Quantity,
		ItemPrice: item.ItemPrice,
	}
}

func toCartResponse(view *appcart.CartView) cartResponse {
	resp := cartResponse{
		CartCode:   view.CartCode,
		Paid:       view.Paid,
		Items:      make([]lineItemResponse, 0, len(view.Items)),
		TotalPrice: view.TotalPrice,
	}
	for i := range view.Items {
		resp.Items = append(resp.Items, toLineItemResponse(&view.Items[i]))
	}
	return resp
}

func decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	_ = ctx
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domaincatalog.ErrCategoryNotFound),
		errors.Is(err, domaincatalog.ErrProductNotFound),
		errors.Is(err, domaincart.ErrNotFound),
		errors.Is(err, domaincart.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domaincatalog.ErrEmptyName),
		errors.Is(err, domaincatalog.ErrUnusableName),
		errors.Is(err, domaincatalog.ErrInvalidPrice),
		errors.Is(err, domaincatalog.ErrInvalidStock),
		errors.Is(err, domaincart.ErrInvalidQuantity),
		errors.Is(err, appcart.ErrCartCodeRequired),
		errors.Is(err, appcatalog.ErrUnknownEntryKind):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domaincatalog.ErrSlugTaken),
		errors.Is(err, appcatalog.ErrSlugConflict),
		errors.Is(err, domaincart.ErrCartPaid):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

type routeKey struct{}

// contextWithRoute stores the stable route template in the context so downstream
// metrics/logging can rely on low-cardinality values.
func contextWithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}
