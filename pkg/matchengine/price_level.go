package matchengine

import (
	"fmt"

	"github.com/gammazero/deque"
)

// PriceLevel is the FIFO queue of resting orders at one price on one side.
// TotalQty and OrderCount are maintained incrementally so depth snapshots
// never walk the queue.
type PriceLevel struct {
	Price int64
	Side  Side

	orders     deque.Deque[*Order]
	TotalQty   int64
	OrderCount int
}

func newPriceLevel(price int64, side Side) *PriceLevel {
	return &PriceLevel{Price: price, Side: side}
}

func (l *PriceLevel) append(o *Order) {
	if o.Price != l.Price || o.Side != l.Side {
		panic(fmt.Sprintf("order %d (price=%d side=%s) appended to level price=%d side=%s",
			o.ID, o.Price, o.Side, l.Price, l.Side))
	}
	l.orders.PushBack(o)
	l.TotalQty += o.LeavesQty
	l.OrderCount++
}

func (l *PriceLevel) peekFront() (*Order, bool) {
	if l.orders.Len() == 0 {
		return nil, false
	}
	return l.orders.Front(), true
}

// reduceFront decrements the front order's remaining quantity by qty and
// pops it once fully filled. qty is computed by the engine as
// min(resting, incoming); anything larger is a corrupted book and fatal.
func (l *PriceLevel) reduceFront(qty int64) {
	front := l.orders.Front()
	if qty > front.LeavesQty {
		panic(fmt.Sprintf("reduce front of level %d by %d, only %d remaining",
			l.Price, qty, front.LeavesQty))
	}
	front.LeavesQty -= qty
	l.TotalQty -= qty
	if front.LeavesQty == 0 {
		l.orders.PopFront()
		l.OrderCount--
	}
}

// remove splices out the order with the given id, returning it if found.
func (l *PriceLevel) remove(orderID int64) (*Order, bool) {
	at := l.orders.Index(func(o *Order) bool { return o.ID == orderID })
	if at < 0 {
		return nil, false
	}
	o := l.orders.Remove(at)
	l.TotalQty -= o.LeavesQty
	l.OrderCount--
	return o, true
}

// amendQtyDown shrinks a resting order's quantity in place, keeping its
// queue position. newQty must be positive and below the current remainder.
func (l *PriceLevel) amendQtyDown(orderID, newQty int64) bool {
	at := l.orders.Index(func(o *Order) bool { return o.ID == orderID })
	if at < 0 {
		return false
	}
	o := l.orders.At(at)
	if newQty <= 0 || newQty >= o.LeavesQty {
		return false
	}
	l.TotalQty -= o.LeavesQty - newQty
	o.LeavesQty = newQty
	o.Qty = newQty
	return true
}

func (l *PriceLevel) isEmpty() bool {
	return l.orders.Len() == 0
}
