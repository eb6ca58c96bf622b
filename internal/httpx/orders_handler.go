package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-shop-api.git/internal/commerce"
	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

type OrdersHandler struct {
	Store         commerce.OrderStore
	Created       Publisher // order.created
	StatusChanged Publisher // order.status.changed
	Redis         *redis.Client
	Service       string
	Validate      *validatorv10.Validate
}

type orderLineReq struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type orderCreateReq struct {
	CustomerID int64          `json:"customer_id" validate:"required"`
	Products   []orderLineReq `json:"products" validate:"required,min=1,dive"`
}

type orderStatusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/api/orders", h.create)
	r.Get("/api/orders", h.list)
	r.Get("/api/orders/{id}", h.get)
	r.Put("/api/orders/{id}/status", h.updateStatus)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req orderCreateReq
	if !bind(w, r, h.Validate, &req) {
		return
	}
	lines := make([]commerce.LineInput, 0, len(req.Products))
	for _, ln := range req.Products {
		lines = append(lines, commerce.LineInput{ProductID: ln.ProductID, Quantity: ln.Quantity})
	}

	o, err := h.Store.CreateOrder(r.Context(), req.CustomerID, lines)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheOrder(r, o)
	publishEvent(h.Created, h.Service, commerce.EventOrderCreated, o.ID, r.Header.Get("X-Request-Id"),
		commerce.OrderCreatedPayload{
			OrderID:    o.ID,
			CustomerID: o.CustomerID,
			Lines:      o.Lines,
			TotalPrice: o.TotalPrice,
		})

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r, "status", "payment_status")
	os, err := h.Store.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	page, size := pageParams(r)
	writeJSON(w, http.StatusOK, paginated(os, page, size))
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if h.Redis != nil {
		if s, err := h.Redis.Get(r.Context(), redisx.Key(redisx.KeyOrder, id)).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	o, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheOrder(r, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusReq
	if !bind(w, r, h.Validate, &req) {
		return
	}
	next, err := commerce.ParseStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	o, err := h.Store.TransitionStatus(r.Context(), id, next)
	if err != nil {
		writeError(w, err)
		return
	}

	h.dropCachedOrder(r, id)
	publishStatusChanged(h.StatusChanged, h.Service, r.Header.Get("X-Request-Id"), o)

	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) cacheOrder(r *http.Request, o *commerce.Order) {
	if h.Redis == nil {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	_ = h.Redis.Set(r.Context(), redisx.Key(redisx.KeyOrder, o.ID), b, redisx.TTLOrderCache).Err()
}

func (h *OrdersHandler) dropCachedOrder(r *http.Request, id string) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(r.Context(), redisx.Key(redisx.KeyOrder, id)).Err()
}
