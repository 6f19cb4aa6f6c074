package domain

import "time"

// OrderLine is one purchased line item on the order ledger. Lines are
// append-only: once written they are never updated or deleted.
type OrderLine struct {
	ID          int64
	ProductName string
	UnitPrice   float64
	Quantity    int32
	CreatedAt   time.Time
}

// Stock is the view of a product the reservation reads under lock.
type Stock struct {
	ProductID int64
	Available int32
}

// Receipt summarizes a committed reservation.
type Receipt struct {
	Lines      int
	ProductIDs []int64
}

// LineFromCart snapshots a cart line onto the ledger shape.
func LineFromCart(line CartLine) *OrderLine {
	return &OrderLine{
		ProductName: line.Name,
		UnitPrice:   line.UnitPrice,
		Quantity:    line.Quantity,
	}
}
