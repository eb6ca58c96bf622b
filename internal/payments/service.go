package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-shop-api.git/internal/commerce"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
)

// Deduper remembers processed event ids across redeliveries.
type Deduper interface {
	Seen(ctx context.Context, id string) (bool, error)
	Mark(ctx context.Context, id string) error
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service is the bus twin of the HTTP payment webhook: it consumes
// payment.received events and applies the same pending-order transition,
// then announces the result on order.status.changed.
type Service struct {
	Orders        commerce.OrderStore
	Dedup         Deduper
	StatusChanged Publisher
	ServiceName   string
}

// HandlePaymentReceived is wired as the consumer handler. A nil return
// commits the offset, so business rejections (unknown order, non-pending
// order, bad status literal) are logged and dropped rather than retried.
func (s *Service) HandlePaymentReceived(ctx context.Context, m kafkago.Message) error {
	var env commerce.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != commerce.EventPaymentReceived {
		return nil
	}

	if s.Dedup != nil {
		if seen, _ := s.Dedup.Seen(ctx, env.EventID); seen {
			return nil
		}
		_ = s.Dedup.Mark(ctx, env.EventID)
	}

	p, err := kafkax.UnwrapPayload[commerce.PaymentReceivedPayload](env.Payload)
	if err != nil {
		return err
	}

	ps, err := commerce.ParsePaymentUpdate(strings.ToLower(p.PaymentStatus))
	if err != nil {
		log.Printf("payment event %s rejected: %v", env.EventID, err)
		return nil
	}

	o, err := s.Orders.ApplyPayment(ctx, p.OrderID, ps)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) ||
			errors.Is(err, commerce.ErrInvalidState) ||
			errors.Is(err, commerce.ErrInvalidArgument) {
			log.Printf("payment event %s rejected: %v", env.EventID, err)
			return nil
		}
		return err
	}

	s.publishStatusChanged(o, env.TraceID)
	return nil
}

func (s *Service) publishStatusChanged(o *commerce.Order, trace string) {
	if s.StatusChanged == nil {
		return
	}
	ev := commerce.NewEnvelope(s.ServiceName, commerce.EventOrderStatusChanged, o.ID, trace,
		kafkax.MustMarshal(commerce.OrderStatusChangedPayload{
			OrderID:       o.ID,
			Status:        o.Status,
			PaymentStatus: o.PaymentStatus,
		}))
	s.StatusChanged.Publish(commerce.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(commerce.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
