package httpx

import (
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-shop-api.git/internal/commerce"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
)

func publishEvent(p Publisher, service, eventType, orderID, trace string, payload any) {
	if p == nil {
		return
	}
	ev := commerce.NewEnvelope(service, eventType, orderID, trace, kafkax.MustMarshal(payload))
	p.Publish(commerce.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func publishStatusChanged(p Publisher, service, trace string, o *commerce.Order) {
	publishEvent(p, service, commerce.EventOrderStatusChanged, o.ID, trace,
		commerce.OrderStatusChangedPayload{
			OrderID:       o.ID,
			Status:        o.Status,
			PaymentStatus: o.PaymentStatus,
		})
}
