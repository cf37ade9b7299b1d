package matchengine

import (
	"container/heap"
	"sort"
)

// BookSide holds every price level for one side of the book, keyed by
// price. Level priority comes from the heap: highest bid first for BUY,
// lowest ask first for SELL. Empty levels never persist.
type BookSide struct {
	side   Side
	levels map[int64]*PriceLevel
	prices *PriceHeap
}

func newBookSide(side Side) *BookSide {
	less := func(i, j int64) bool { return i > j } // BUY: best = max
	if side == SELL {
		less = func(i, j int64) bool { return i < j } // SELL: best = min
	}
	return &BookSide{
		side:   side,
		levels: make(map[int64]*PriceLevel),
		prices: NewPriceHeap(less),
	}
}

// bestLevel returns the highest-priority non-empty level. Prices whose
// level has been removed are dropped from the heap lazily here.
func (s *BookSide) bestLevel() (*PriceLevel, bool) {
	for {
		price, ok := s.prices.Peek()
		if !ok {
			return nil, false
		}
		level, ok := s.levels[price]
		if !ok {
			heap.Pop(s.prices)
			continue
		}
		return level, true
	}
}

func (s *BookSide) levelAt(price int64) (*PriceLevel, bool) {
	level, ok := s.levels[price]
	return level, ok
}

func (s *BookSide) getOrCreateLevel(price int64) *PriceLevel {
	if level, ok := s.levels[price]; ok {
		return level
	}
	level := newPriceLevel(price, s.side)
	s.levels[price] = level
	heap.Push(s.prices, price)
	return level
}

func (s *BookSide) removeLevelIfEmpty(price int64) {
	if level, ok := s.levels[price]; ok && level.isEmpty() {
		delete(s.levels, price)
	}
}

// removeOrder locates the level by price and splices the order out of it.
func (s *BookSide) removeOrder(orderID, price int64) (*Order, bool) {
	level, ok := s.levels[price]
	if !ok {
		return nil, false
	}
	o, ok := level.remove(orderID)
	if !ok {
		return nil, false
	}
	s.removeLevelIfEmpty(price)
	return o, true
}

func (s *BookSide) isEmpty() bool {
	return len(s.levels) == 0
}

// depth returns up to maxLevels levels best-first. maxLevels <= 0 means all.
func (s *BookSide) depth(maxLevels int) []DepthLevel {
	prices := make([]int64, 0, len(s.levels))
	for price := range s.levels {
		prices = append(prices, price)
	}
	sort.Slice(prices, func(i, j int) bool { return s.prices.less(prices[i], prices[j]) })

	if maxLevels > 0 && len(prices) > maxLevels {
		prices = prices[:maxLevels]
	}
	out := make([]DepthLevel, 0, len(prices))
	for _, price := range prices {
		level := s.levels[price]
		out = append(out, DepthLevel{
			Price:  price,
			Qty:    level.TotalQty,
			Orders: level.OrderCount,
		})
	}
	return out
}
