package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shop-api.git/internal/commerce"
)

type ProductsHandler struct {
	Store    commerce.ProductStore
	Validate *validatorv10.Validate
}

type productCreateReq struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
}

type productUpdateReq struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Post("/api/products", h.create)
	r.Get("/api/products", h.list)
	r.Get("/api/products/{id}", h.get)
	r.Put("/api/products/{id}", h.update)
	r.Delete("/api/products/{id}", h.delete)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productCreateReq
	if !bind(w, r, h.Validate, &req) {
		return
	}
	p, err := h.Store.Create(r.Context(), &commerce.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r, "quantity_gt", "quantity_lte")
	ps, err := h.Store.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	page, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginated(ps, page, size))
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productUpdateReq
	if !bind(w, r, h.Validate, &req) {
		return
	}
	p, err := h.Store.Update(r.Context(), chi.URLParam(r, "id"), commerce.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Product deleted successfully"})
}
