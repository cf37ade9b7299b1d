package matchengine

import "time"

// Order is a single incoming or resting order. Price is an integer multiple
// of the book's tick size; no floating point is used anywhere in price or
// quantity arithmetic.
type Order struct {
	ID        int64
	Symbol    string
	Side      Side
	Price     int64
	Qty       int64 // original quantity, immutable after submit
	LeavesQty int64 // remaining quantity, decreases monotonically to zero
	Timestamp time.Time

	// seq is assigned by the engine at acceptance and is the time-priority
	// tie-break within a price level. Wall-clock timestamps may collide;
	// seq never does.
	seq uint64
}

// Seq returns the engine-assigned priority sequence number.
func (o *Order) Seq() uint64 {
	return o.seq
}
