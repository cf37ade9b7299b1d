package matchengine

// Config is the per-book configuration. TickSize is explicit: prices are
// integer multiples of it and the scale is never hardcoded in the core.
type Config struct {
	Symbol   string
	TickSize int64

	// AmendQtyDecreaseInPlace lets a quantity-only reduction keep its queue
	// slot instead of going through cancel/replace. Off by default: the
	// conservative semantics re-queues every amend.
	AmendQtyDecreaseInPlace bool
}

type orderLocation struct {
	side  Side
	price int64
}

// Engine is the matching core for one symbol. It is not safe for concurrent
// use; a Book wraps it in a single-writer loop. All operations validate
// before mutating, so a rejected request leaves no partial state behind.
type Engine struct {
	cfg        Config
	buy        *BookSide
	sell       *BookSide
	orderIndex map[int64]orderLocation
	nextSeq    uint64
}

func NewEngine(cfg Config) *Engine {
	if cfg.TickSize <= 0 {
		cfg.TickSize = 1
	}
	return &Engine{
		cfg:        cfg,
		buy:        newBookSide(BUY),
		sell:       newBookSide(SELL),
		orderIndex: make(map[int64]orderLocation),
	}
}

func (e *Engine) Symbol() string {
	return e.cfg.Symbol
}

func (e *Engine) validPrice(price int64) bool {
	return price > 0 && price%e.cfg.TickSize == 0
}

// SubmitNew validates, matches against the opposite side and rests any
// remainder. The returned events are in engine order: trades first, then a
// single Ack (or a single Reject with nothing else).
func (e *Engine) SubmitNew(o *Order) []Event {
	if o.Qty <= 0 {
		return []Event{reject(e.cfg.Symbol, o.ID, RejectInvalidQuantity)}
	}
	if !e.validPrice(o.Price) {
		return []Event{reject(e.cfg.Symbol, o.ID, RejectInvalidPrice)}
	}
	if _, ok := e.orderIndex[o.ID]; ok {
		return []Event{reject(e.cfg.Symbol, o.ID, RejectDuplicateID)}
	}

	o.LeavesQty = o.Qty
	o.seq = e.nextSeq
	e.nextSeq++

	events := e.match(o)
	if o.LeavesQty > 0 {
		e.rest(o)
	}
	return append(events, ack(e.cfg.Symbol, o.ID, o.LeavesQty))
}

// match sweeps the opposite side while the incoming order is marketable,
// executing at each resting order's price. One incoming order may cross
// multiple orders and multiple levels.
func (e *Engine) match(o *Order) []Event {
	counter := e.sell
	crosses := func(incoming, resting int64) bool { return incoming >= resting }
	if o.Side == SELL {
		counter = e.buy
		crosses = func(incoming, resting int64) bool { return incoming <= resting }
	}

	var events []Event
	for o.LeavesQty > 0 {
		level, ok := counter.bestLevel()
		if !ok || !crosses(o.Price, level.Price) {
			break
		}

		resting, _ := level.peekFront()
		tradeQty := min(o.LeavesQty, resting.LeavesQty)
		makerID := resting.ID
		makerDone := resting.LeavesQty == tradeQty

		o.LeavesQty -= tradeQty
		level.reduceFront(tradeQty)
		if makerDone {
			delete(e.orderIndex, makerID)
			counter.removeLevelIfEmpty(level.Price)
		}

		events = append(events, trade(e.cfg.Symbol, makerID, o.ID, level.Price, tradeQty, o.seq))
	}
	return events
}

func (e *Engine) rest(o *Order) {
	side := e.buy
	if o.Side == SELL {
		side = e.sell
	}
	side.getOrCreateLevel(o.Price).append(o)
	e.orderIndex[o.ID] = orderLocation{side: o.Side, price: o.Price}
}

// Cancel removes a resting order. Unknown ids reject with NotFound.
func (e *Engine) Cancel(orderID int64) []Event {
	loc, ok := e.orderIndex[orderID]
	if !ok {
		return []Event{reject(e.cfg.Symbol, orderID, RejectNotFound)}
	}

	side := e.buy
	if loc.side == SELL {
		side = e.sell
	}
	if _, ok := side.removeOrder(orderID, loc.price); !ok {
		panic("order index out of sync with book")
	}
	delete(e.orderIndex, orderID)

	return []Event{{Type: EventCancelAck, Symbol: e.cfg.Symbol, OrderID: orderID}}
}

// Modify is cancel/replace in one atomic step: the replacement takes a
// fresh sequence number and may trade immediately, but only a single
// ModifyAck is emitted. A rejected modify leaves the original untouched.
// With AmendQtyDecreaseInPlace, a same-price quantity reduction keeps its
// time priority.
func (e *Engine) Modify(orderID, newQty, newPrice int64) []Event {
	loc, ok := e.orderIndex[orderID]
	if !ok {
		return []Event{reject(e.cfg.Symbol, orderID, RejectNotFound)}
	}
	if newQty <= 0 {
		return []Event{reject(e.cfg.Symbol, orderID, RejectInvalidQuantity)}
	}
	if !e.validPrice(newPrice) {
		return []Event{reject(e.cfg.Symbol, orderID, RejectInvalidPrice)}
	}

	side := e.buy
	if loc.side == SELL {
		side = e.sell
	}

	if e.cfg.AmendQtyDecreaseInPlace && newPrice == loc.price {
		if level, ok := side.levelAt(loc.price); ok && level.amendQtyDown(orderID, newQty) {
			return []Event{{Type: EventModifyAck, Symbol: e.cfg.Symbol, OrderID: orderID, RestingQty: newQty}}
		}
	}

	old, ok := side.removeOrder(orderID, loc.price)
	if !ok {
		panic("order index out of sync with book")
	}
	delete(e.orderIndex, orderID)

	replacement := &Order{
		ID:        orderID,
		Symbol:    old.Symbol,
		Side:      old.Side,
		Price:     newPrice,
		Qty:       newQty,
		LeavesQty: newQty,
		Timestamp: old.Timestamp,
		seq:       e.nextSeq,
	}
	e.nextSeq++

	events := e.match(replacement)
	if replacement.LeavesQty > 0 {
		e.rest(replacement)
	}
	return append(events, Event{
		Type:       EventModifyAck,
		Symbol:     e.cfg.Symbol,
		OrderID:    orderID,
		RestingQty: replacement.LeavesQty,
	})
}

// Depth is a point-in-time snapshot of outstanding interest, best-first.
func (e *Engine) Depth(maxLevels int) DepthSnapshot {
	return DepthSnapshot{
		Symbol: e.cfg.Symbol,
		Bids:   e.buy.depth(maxLevels),
		Asks:   e.sell.depth(maxLevels),
	}
}

// BestBid returns the best resting buy level, if any.
func (e *Engine) BestBid() (*PriceLevel, bool) {
	return e.buy.bestLevel()
}

// BestAsk returns the best resting sell level, if any.
func (e *Engine) BestAsk() (*PriceLevel, bool) {
	return e.sell.bestLevel()
}
