package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-shop-api.git/internal/commerce"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
)

type memDedup struct {
	seen map[string]bool
}

func (d *memDedup) Seen(ctx context.Context, id string) (bool, error) { return d.seen[id], nil }
func (d *memDedup) Mark(ctx context.Context, id string) error {
	d.seen[id] = true
	return nil
}

type capturePublisher struct {
	values [][]byte
}

func (c *capturePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	c.values = append(c.values, value)
}

// memOrders keeps just enough order state to drive ApplyPayment.
type memOrders struct {
	orders map[string]*commerce.Order
	calls  int
}

func (m *memOrders) GetByID(ctx context.Context, id string) (*commerce.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order", commerce.ErrNotFound)
	}
	return o, nil
}

func (m *memOrders) List(ctx context.Context, f commerce.Filter) ([]*commerce.Order, error) {
	return nil, nil
}

func (m *memOrders) CreateOrder(ctx context.Context, customerID int64, lines []commerce.LineInput) (*commerce.Order, error) {
	return nil, nil
}

func (m *memOrders) TransitionStatus(ctx context.Context, id string, next commerce.Status) (*commerce.Order, error) {
	return nil, nil
}

func (m *memOrders) ApplyPayment(ctx context.Context, id string, ps commerce.PaymentStatus) (*commerce.Order, error) {
	m.calls++
	o, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != commerce.StatusPending {
		return nil, fmt.Errorf("%w: order is %s", commerce.ErrInvalidState, o.Status)
	}
	o.PaymentStatus = ps
	o.Status = commerce.StatusForPayment(ps)
	return o, nil
}

func newTestService() (*Service, *memOrders, *capturePublisher) {
	orders := &memOrders{orders: map[string]*commerce.Order{}}
	pub := &capturePublisher{}
	svc := &Service{
		Orders:        orders,
		Dedup:         &memDedup{seen: map[string]bool{}},
		StatusChanged: pub,
		ServiceName:   "payments-test",
	}
	return svc, orders, pub
}

func paymentMessage(orderID, status string) (kafkago.Message, commerce.Envelope) {
	env := commerce.NewEnvelope("gateway", commerce.EventPaymentReceived, orderID, "",
		kafkax.MustMarshal(commerce.PaymentReceivedPayload{OrderID: orderID, PaymentStatus: status}))
	return kafkago.Message{Value: kafkax.MustMarshal(env)}, env
}

func TestHandlePaymentReceived(t *testing.T) {
	svc, orders, pub := newTestService()
	orders.orders["ord-1"] = &commerce.Order{
		ID:            "ord-1",
		Status:        commerce.StatusPending,
		PaymentStatus: commerce.PaymentUnpaid,
	}

	msg, _ := paymentMessage("ord-1", "paid")
	if err := svc.HandlePaymentReceived(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	o := orders.orders["ord-1"]
	if o.Status != commerce.StatusCompleted || o.PaymentStatus != commerce.PaymentPaid {
		t.Errorf("order after paid event: %s/%s", o.Status, o.PaymentStatus)
	}

	if len(pub.values) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.values))
	}
	var out commerce.Envelope
	if err := json.Unmarshal(pub.values[0], &out); err != nil {
		t.Fatalf("decode published envelope: %v", err)
	}
	if out.EventType != commerce.EventOrderStatusChanged || out.CorrelationID != "ord-1" {
		t.Errorf("published %s/%s", out.EventType, out.CorrelationID)
	}
}

func TestHandlePaymentReceivedDedup(t *testing.T) {
	svc, orders, _ := newTestService()
	orders.orders["ord-1"] = &commerce.Order{ID: "ord-1", Status: commerce.StatusPending}

	msg, _ := paymentMessage("ord-1", "paid")
	if err := svc.HandlePaymentReceived(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	// redelivery of the same event id is a no-op
	if err := svc.HandlePaymentReceived(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if orders.calls != 1 {
		t.Errorf("ApplyPayment called %d times, want 1", orders.calls)
	}
}

func TestHandlePaymentReceivedRejectionsCommit(t *testing.T) {
	svc, orders, pub := newTestService()
	orders.orders["done"] = &commerce.Order{ID: "done", Status: commerce.StatusCompleted}

	// non-pending order: logged, offset committed
	msg, _ := paymentMessage("done", "paid")
	if err := svc.HandlePaymentReceived(context.Background(), msg); err != nil {
		t.Errorf("non-pending order: err = %v", err)
	}

	// unknown order
	msg, _ = paymentMessage("missing", "paid")
	if err := svc.HandlePaymentReceived(context.Background(), msg); err != nil {
		t.Errorf("unknown order: err = %v", err)
	}

	// unusable status literal
	msg, _ = paymentMessage("done", "refunded")
	if err := svc.HandlePaymentReceived(context.Background(), msg); err != nil {
		t.Errorf("bad literal: err = %v", err)
	}

	if len(pub.values) != 0 {
		t.Errorf("rejections published %d events", len(pub.values))
	}
}

func TestHandlePaymentReceivedIgnoresOtherEvents(t *testing.T) {
	svc, orders, _ := newTestService()
	orders.orders["ord-1"] = &commerce.Order{ID: "ord-1", Status: commerce.StatusPending}

	env := commerce.NewEnvelope("api", commerce.EventOrderCreated, "ord-1", "",
		kafkax.MustMarshal(commerce.OrderCreatedPayload{OrderID: "ord-1"}))
	msg := kafkago.Message{Value: kafkax.MustMarshal(env)}

	if err := svc.HandlePaymentReceived(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if orders.calls != 0 {
		t.Errorf("ApplyPayment called for a foreign event type")
	}
}
