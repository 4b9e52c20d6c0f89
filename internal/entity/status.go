package entity

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusPaid     OrderStatus = "PAID"
	StatusShipped  OrderStatus = "SHIPPED"
	StatusCanceled OrderStatus = "CANCELED"
)

// transitions is the full transition table. SHIPPED and CANCELED have no
// outgoing edges and are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:  {StatusPaid, StatusCanceled},
	StatusPaid:     {StatusShipped, StatusCanceled},
	StatusShipped:  {},
	StatusCanceled: {},
}

// ParseOrderStatus maps a wire value onto a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusPaid, StatusShipped, StatusCanceled:
		return OrderStatus(s), true
	}
	return "", false
}

// CanTransitionTo reports whether the table allows moving from s to next.
// A transition to the current status is always allowed as a no-op.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transitions leave s.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}
