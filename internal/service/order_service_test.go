package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/egannguyen/go-orders-inventory/internal/entity"
	"github.com/egannguyen/go-orders-inventory/internal/repository/memory"
)

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *capturePublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

func newService(t *testing.T) (*OrderService, *memory.Store, *capturePublisher) {
	t.Helper()
	store := memory.New()
	pub := &capturePublisher{}
	return NewOrderService(store.Products(), store.Orders(), pub), store, pub
}

func seedProduct(t *testing.T, svc *OrderService, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{SKU: "SKU-" + t.Name(), Name: "widget", Price: 19.99, Stock: stock}
	if err := svc.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestCreateOrderHappyPath(t *testing.T) {
	svc, _, pub := newService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, 50)

	o, err := svc.CreateOrder(ctx, p.ID, 5)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != entity.StatusPending {
		t.Fatalf("status = %s, want PENDING", o.Status)
	}
	if o.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	got, _ := svc.GetProduct(ctx, p.ID)
	if got.Stock != 45 {
		t.Fatalf("stock = %d, want 45", got.Stock)
	}
	if pub.published(TopicOrdersCreated) != 1 {
		t.Fatal("expected one OrderCreated event")
	}
}

func TestCreateOrderRejectsBadQuantity(t *testing.T) {
	svc, _, _ := newService(t)
	p := seedProduct(t, svc, 5)

	for _, qty := range []int{0, -1} {
		if _, err := svc.CreateOrder(context.Background(), p.ID, qty); !errors.Is(err, entity.ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, _, pub := newService(t)

	_, err := svc.CreateOrder(context.Background(), 999, 1)
	if !errors.Is(err, entity.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if pub.published(TopicOrdersCreated) != 0 {
		t.Fatal("no event must be published on failure")
	}
}

// TestOrderLifecycleScenario walks the reference scenario: stock 50, order 5,
// oversized order rejected with the remaining availability, cancellation
// restores stock, second cancellation rejected.
func TestOrderLifecycleScenario(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, 50)

	first, err := svc.CreateOrder(ctx, p.ID, 5)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := svc.GetProduct(ctx, p.ID)
	if got.Stock != 45 {
		t.Fatalf("stock = %d, want 45", got.Stock)
	}

	_, err = svc.CreateOrder(ctx, p.ID, 50)
	var insufficient *entity.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 45 || insufficient.Requested != 50 {
		t.Fatalf("got available=%d requested=%d, want 45 and 50", insufficient.Available, insufficient.Requested)
	}

	if _, err := svc.Cancel(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.GetProduct(ctx, p.ID)
	if got.Stock != 50 {
		t.Fatalf("stock after cancel = %d, want 50", got.Stock)
	}

	_, err = svc.Cancel(ctx, first.ID)
	var transition *entity.InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError on double cancel, got %v", err)
	}
}

func TestCancelPaidDoesNotRestock(t *testing.T) {
	svc, _, pub := newService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, 10)

	o, _ := svc.CreateOrder(ctx, p.ID, 4)
	if _, err := svc.MarkPaid(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Cancel(ctx, o.ID); err != nil {
		t.Fatal(err)
	}

	got, _ := svc.GetProduct(ctx, p.ID)
	if got.Stock != 6 {
		t.Fatalf("stock = %d, want 6 (no restock on PAID cancel)", got.Stock)
	}
	if pub.published(TopicOrdersCanceled) != 1 {
		t.Fatal("expected one OrderCanceled event")
	}
}

func TestMarkPaidIdempotent(t *testing.T) {
	svc, _, pub := newService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, 10)

	o, _ := svc.CreateOrder(ctx, p.ID, 1)
	first, err := svc.MarkPaid(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.MarkPaid(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != entity.StatusPaid || second.Status != entity.StatusPaid {
		t.Fatalf("statuses = %s, %s, want PAID twice", first.Status, second.Status)
	}
	if pub.published(TopicOrdersPaid) != 1 {
		t.Fatal("repeat MarkPaid must not publish again")
	}
}

func TestMarkPaidIgnoresNonPayableStates(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, 10)

	o, _ := svc.CreateOrder(ctx, p.ID, 1)
	if _, err := svc.Cancel(ctx, o.ID); err != nil {
		t.Fatal(err)
	}

	got, err := svc.MarkPaid(ctx, o.ID)
	if err != nil {
		t.Fatalf("MarkPaid on CANCELED must be silently ignored, got %v", err)
	}
	if got.Status != entity.StatusCanceled {
		t.Fatalf("status = %s, want CANCELED (unchanged)", got.Status)
	}
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	svc, _, _ := newService(t)
	if _, err := svc.MarkPaid(context.Background(), 123); !errors.Is(err, entity.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestUpdateStatusPublishesByTarget(t *testing.T) {
	svc, _, pub := newService(t)
	ctx := context.Background()
	p := seedProduct(t, svc, 10)

	o, _ := svc.CreateOrder(ctx, p.ID, 1)
	if _, err := svc.UpdateStatus(ctx, o.ID, entity.StatusPaid); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(ctx, o.ID, entity.StatusShipped); err != nil {
		t.Fatal(err)
	}
	if pub.published(TopicOrdersPaid) != 1 || pub.published(TopicOrdersShipped) != 1 {
		t.Fatalf("unexpected topics: %v", pub.topics)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	cases := []entity.Product{
		{SKU: "", Name: "x", Price: 1},
		{SKU: "S-1", Name: "x", Price: 0},
		{SKU: "S-2", Name: "x", Price: 1, Stock: -1},
	}
	for i := range cases {
		if err := svc.CreateProduct(ctx, &cases[i]); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
