package redisx

import (
	"fmt"
	"time"
)

const (
	// Cached JSON body of an order: order:{order_id}
	KeyOrder = "order:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
)

func Key(pattern string, args ...any) string {
	return fmt.Sprintf(pattern, args...)
}
