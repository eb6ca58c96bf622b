package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-shop-api.git/internal/commerce"
)

// Publisher is the slice of the kafka producer the handlers need.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, commerce.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, commerce.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, commerce.ErrInvalidArgument),
		errors.Is(err, commerce.ErrValidation),
		errors.Is(err, commerce.ErrInsufficientStock),
		errors.Is(err, commerce.ErrInvalidTransition),
		errors.Is(err, commerce.ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type pageEnvelope struct {
	Items any `json:"items"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

func pageParams(r *http.Request) (page, size int) {
	page, size = 1, 20
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && n > 0 && n <= 100 {
		size = n
	}
	return page, size
}

// paginated slices items into the page/size envelope the list endpoints
// return; total always reflects the unpaginated match count.
func paginated[T any](items []*T, page, size int) pageEnvelope {
	total := len(items)
	lo := (page - 1) * size
	if lo > total {
		lo = total
	}
	hi := lo + size
	if hi > total {
		hi = total
	}
	window := items[lo:hi]
	if window == nil {
		window = []*T{}
	}
	return pageEnvelope{Items: window, Page: page, Size: size, Total: total}
}

func filterFromQuery(r *http.Request, keys ...string) commerce.Filter {
	f := commerce.Filter{}
	q := r.URL.Query()
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			f[k] = v
		}
	}
	return f
}
