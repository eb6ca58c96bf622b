package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/ariefcatur/go-shop-api.git/internal/commerce"
)

type CustomersHandler struct {
	Store    commerce.CustomerStore
	Validate *validatorv10.Validate
}

type customerCreateReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// The read paths keep their historical shapes: the collection lives at
// /customers, a single record at /customer/{id}, creation under /api.
func (h *CustomersHandler) Register(r *chi.Mux) {
	r.Get("/customers", h.list)
	r.Get("/customer/{id}", h.get)
	r.Post("/api/customers", h.create)
}

func (h *CustomersHandler) list(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Store.List(r.Context(), commerce.Filter{})
	if err != nil {
		writeError(w, err)
		return
	}
	page, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginated(cs, page, size))
}

func (h *CustomersHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req customerCreateReq
	if !bind(w, r, h.Validate, &req) {
		return
	}
	c, err := h.Store.Create(r.Context(), &commerce.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
