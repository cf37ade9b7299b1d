package matchengine

import "testing"

func newRestingOrder(id, price, qty int64, side Side) *Order {
	return &Order{ID: id, Symbol: "ABC", Side: side, Price: price, Qty: qty, LeavesQty: qty}
}

func TestPriceLevelFIFO(t *testing.T) {
	level := newPriceLevel(100_000, BUY)
	level.append(newRestingOrder(1, 100_000, 10, BUY))
	level.append(newRestingOrder(2, 100_000, 20, BUY))

	if level.TotalQty != 30 || level.OrderCount != 2 {
		t.Fatalf("aggregates TotalQty=%d OrderCount=%d", level.TotalQty, level.OrderCount)
	}

	front, ok := level.peekFront()
	if !ok || front.ID != 1 {
		t.Fatalf("expected order 1 at front, got %+v", front)
	}

	level.reduceFront(10)
	front, _ = level.peekFront()
	if front.ID != 2 {
		t.Errorf("expected order 2 at front after full reduce, got %d", front.ID)
	}
	if level.TotalQty != 20 || level.OrderCount != 1 {
		t.Errorf("aggregates after reduce TotalQty=%d OrderCount=%d", level.TotalQty, level.OrderCount)
	}
}

func TestPriceLevelPartialReduce(t *testing.T) {
	level := newPriceLevel(100_000, SELL)
	level.append(newRestingOrder(1, 100_000, 10, SELL))

	level.reduceFront(4)
	front, _ := level.peekFront()
	if front.LeavesQty != 6 {
		t.Fatalf("expected leaves 6, got %d", front.LeavesQty)
	}
	if level.TotalQty != 6 {
		t.Errorf("expected TotalQty 6, got %d", level.TotalQty)
	}
}

func TestPriceLevelReduceBeyondRemainingPanics(t *testing.T) {
	level := newPriceLevel(100_000, BUY)
	level.append(newRestingOrder(1, 100_000, 5, BUY))

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic reducing beyond remaining")
		}
	}()
	level.reduceFront(6)
}

func TestPriceLevelAppendWrongPricePanics(t *testing.T) {
	level := newPriceLevel(100_000, BUY)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic appending wrong price")
		}
	}()
	level.append(newRestingOrder(1, 99_000, 5, BUY))
}

func TestPriceLevelRemove(t *testing.T) {
	level := newPriceLevel(100_000, BUY)
	level.append(newRestingOrder(1, 100_000, 10, BUY))
	level.append(newRestingOrder(2, 100_000, 20, BUY))
	level.append(newRestingOrder(3, 100_000, 30, BUY))

	o, ok := level.remove(2)
	if !ok || o.ID != 2 {
		t.Fatalf("remove(2) = %+v, %v", o, ok)
	}
	if level.TotalQty != 40 || level.OrderCount != 2 {
		t.Errorf("aggregates after remove TotalQty=%d OrderCount=%d", level.TotalQty, level.OrderCount)
	}

	if _, ok := level.remove(99); ok {
		t.Errorf("remove of unknown id should report not found")
	}

	// order 1 keeps the front after a middle removal
	front, _ := level.peekFront()
	if front.ID != 1 {
		t.Errorf("expected order 1 at front, got %d", front.ID)
	}
}

func TestPriceLevelAmendQtyDown(t *testing.T) {
	level := newPriceLevel(100_000, SELL)
	level.append(newRestingOrder(1, 100_000, 10, SELL))
	level.append(newRestingOrder(2, 100_000, 10, SELL))

	if !level.amendQtyDown(2, 4) {
		t.Fatalf("expected amend success")
	}
	if level.TotalQty != 14 {
		t.Errorf("expected TotalQty 14, got %d", level.TotalQty)
	}

	// increases are not amendable in place
	if level.amendQtyDown(2, 40) {
		t.Errorf("amend up should fail")
	}
}
