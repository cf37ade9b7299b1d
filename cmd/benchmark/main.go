package main

import (
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/joripage/matchengine/pkg/matchengine"
)

const (
	numOrders = 1_000_000
	tickSize  = 100
	minPrice  = 100_00
	maxPrice  = 200_00
	minQty    = 1
	maxQty    = 100
)

func randomOrder(id int64) *matchengine.Order {
	side := matchengine.BUY
	if rand.Intn(2) == 0 {
		side = matchengine.SELL
	}
	ticks := int64(rand.Intn((maxPrice-minPrice)/tickSize + 1))
	qty := int64(rand.Intn(maxQty-minQty+1) + minQty)

	return &matchengine.Order{
		ID:     id,
		Symbol: "ABC",
		Side:   side,
		Price:  minPrice + ticks*tickSize,
		Qty:    qty,
	}
}

func main() {
	books := matchengine.NewBookManager(&matchengine.BookManagerConfig{
		DefaultTickSize: tickSize,
		RequestBuffer:   numOrders,
		EventBuffer:     numOrders,
	})

	var totalTrades, totalQty, rejected atomic.Int64
	books.RegisterEventCallback(func(ev matchengine.Event) {
		switch ev.Type {
		case matchengine.EventTrade:
			n := totalTrades.Add(1)
			totalQty.Add(ev.Qty)
			if n <= 5 {
				log.Printf("match: maker[%d] <=> taker[%d] @ %d qty %d\n",
					ev.MakerOrderID, ev.TakerOrderID, ev.Price, ev.Qty)
			}
		case matchengine.EventReject:
			rejected.Add(1)
		}
	})

	start := time.Now()
	for i := int64(1); i <= numOrders; i++ {
		if err := books.SubmitNew(randomOrder(i)); err != nil {
			rejected.Add(1)
		}
	}
	elapsed := time.Since(start)

	// let the forwarder drain before reading counters
	time.Sleep(time.Second)
	books.Stop()

	log.Printf("submitted %d orders in %v (%.0f orders/sec)",
		numOrders, elapsed, float64(numOrders)/elapsed.Seconds())
	log.Printf("trades=%d tradedQty=%d rejected=%d",
		totalTrades.Load(), totalQty.Load(), rejected.Load())
}
