package httpx

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-shop-api.git/internal/commerce"
	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

// WebhookHandler receives payment-status notifications from the gateway.
// The endpoint is guarded by a static bearer token.
type WebhookHandler struct {
	Store         commerce.OrderStore
	StatusChanged Publisher
	Redis         *redis.Client
	Service       string
	Token         string
	Validate      *validatorv10.Validate
}

type webhookReq struct {
	OrderID       string `json:"order_id" validate:"required"`
	PaymentStatus string `json:"payment_status" validate:"required"`
}

type webhookResp struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	OrderID   string    `json:"order_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *WebhookHandler) Register(r *chi.Mux) {
	r.Post("/api/payment-webhook", h.handle)
}

func (h *WebhookHandler) handle(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r); err != nil {
		writeError(w, err)
		return
	}

	var req webhookReq
	if !bind(w, r, h.Validate, &req) {
		return
	}
	ps, err := commerce.ParsePaymentUpdate(strings.ToLower(req.PaymentStatus))
	if err != nil {
		writeError(w, err)
		return
	}

	o, err := h.Store.ApplyPayment(r.Context(), req.OrderID, ps)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.Redis != nil {
		_ = h.Redis.Del(r.Context(), redisx.Key(redisx.KeyOrder, o.ID)).Err()
	}
	publishStatusChanged(h.StatusChanged, h.Service, r.Header.Get("X-Request-Id"), o)

	writeJSON(w, http.StatusOK, webhookResp{
		Success:   true,
		Message:   fmt.Sprintf("Successfully updated payment status to %s", ps),
		OrderID:   o.ID,
		UpdatedAt: o.UpdatedAt,
	})
}

func (h *WebhookHandler) authorize(r *http.Request) error {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token != h.Token {
		return fmt.Errorf("%w: bad webhook token", commerce.ErrUnauthorized)
	}
	return nil
}
