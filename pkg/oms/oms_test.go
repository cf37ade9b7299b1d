package oms

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/matchengine/pkg/matchengine"
	"github.com/joripage/matchengine/pkg/oms/model"
	riskrule "github.com/joripage/matchengine/pkg/oms/risk_rule"
)

type stubGateway struct {
	reports chan model.Order
}

func newStubGateway() *stubGateway {
	return &stubGateway{reports: make(chan model.Order, 64)}
}

func (g *stubGateway) Start(ctx context.Context) error { return nil }

func (g *stubGateway) OnOrderReport(ctx context.Context, order model.Order) {
	g.reports <- order
}

func newTestOMS(t *testing.T) (*OMS, *stubGateway) {
	t.Helper()
	gw := newStubGateway()
	s := NewOMS(&Config{
		PriceScale:      3,
		DefaultTickSize: 500,
	}, gw)
	t.Cleanup(s.Stop)
	return s, gw
}

// waitReport drains gateway reports until pred matches or the deadline hits.
func waitReport(t *testing.T, gw *stubGateway, pred func(model.Order) bool) model.Order {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case order := <-gw.reports:
			if pred(order) {
				return order
			}
		case <-deadline:
			t.Fatalf("timed out waiting for report")
		}
	}
}

func addOrder(gatewayID, symbol string, side model.OrderSide, price string, qty int64) *model.AddOrder {
	return &model.AddOrder{
		GatewayID:    gatewayID,
		Account:      "ACC1",
		Symbol:       symbol,
		Side:         side,
		Price:        decimal.RequireFromString(price),
		Quantity:     qty,
		TransactTime: time.Now(),
	}
}

func TestPriceToTicks(t *testing.T) {
	s, _ := newTestOMS(t)

	ticks, err := s.priceToTicks(decimal.RequireFromString("145.5"))
	if err != nil {
		t.Fatalf("priceToTicks err=%v", err)
	}
	if ticks != 145500 {
		t.Errorf("ticks = %d, want 145500", ticks)
	}

	if _, err := s.priceToTicks(decimal.RequireFromString("145.0001")); err == nil {
		t.Errorf("expected error for price finer than scale")
	}

	back := s.ticksToPrice(145500)
	if !back.Equal(decimal.RequireFromString("145.5")) {
		t.Errorf("ticksToPrice = %s, want 145.5", back)
	}
}

func TestAddOrderTradeFlow(t *testing.T) {
	s, gw := newTestOMS(t)
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrder("C1", "ABC", model.OrderSideBuy, "145", 100)); err != nil {
		t.Fatalf("add buy err=%v", err)
	}
	waitReport(t, gw, func(o model.Order) bool {
		return o.GatewayID == "C1" && o.Status == model.OrderStatusNew
	})

	if err := s.AddOrder(ctx, addOrder("C2", "ABC", model.OrderSideSell, "144.5", 50)); err != nil {
		t.Fatalf("add sell err=%v", err)
	}

	maker := waitReport(t, gw, func(o model.Order) bool {
		return o.GatewayID == "C1" && o.Status == model.OrderStatusPartiallyFilled
	})
	if maker.CumQuantity != 50 || maker.LeavesQuantity != 50 {
		t.Errorf("maker cum=%d leaves=%d, want 50/50", maker.CumQuantity, maker.LeavesQuantity)
	}
	if !maker.LastPrice.Equal(decimal.RequireFromString("145")) {
		t.Errorf("maker last price = %s, want 145", maker.LastPrice)
	}

	taker := waitReport(t, gw, func(o model.Order) bool {
		return o.GatewayID == "C2" && o.Status == model.OrderStatusFilled
	})
	if taker.CumQuantity != 50 || taker.LeavesQuantity != 0 {
		t.Errorf("taker cum=%d leaves=%d, want 50/0", taker.CumQuantity, taker.LeavesQuantity)
	}
}

func TestAddOrderDuplicateGatewayID(t *testing.T) {
	s, gw := newTestOMS(t)
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrder("C1", "ABC", model.OrderSideBuy, "145", 10)); err != nil {
		t.Fatalf("first add err=%v", err)
	}
	waitReport(t, gw, func(o model.Order) bool { return o.Status == model.OrderStatusNew })

	err := s.AddOrder(ctx, addOrder("C1", "ABC", model.OrderSideBuy, "145", 10))
	if err != errDuplicateOrder {
		t.Errorf("err = %v, want errDuplicateOrder", err)
	}
}

func TestAddOrderRiskReject(t *testing.T) {
	s, gw := newTestOMS(t)
	s.AddRiskRule(&riskrule.MaxQtyRule{MaxQty: 10})
	ctx := context.Background()

	err := s.AddOrder(ctx, addOrder("C1", "ABC", model.OrderSideBuy, "145", 100))
	if err == nil {
		t.Fatalf("expected risk rejection")
	}

	rejected := waitReport(t, gw, func(o model.Order) bool {
		return o.Status == model.OrderStatusRejected
	})
	if rejected.RejectReason == "" {
		t.Errorf("reject report carries no reason")
	}
}

func TestCancelOrderFlow(t *testing.T) {
	s, gw := newTestOMS(t)
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrder("C1", "ABC", model.OrderSideBuy, "145", 10)); err != nil {
		t.Fatalf("add err=%v", err)
	}
	waitReport(t, gw, func(o model.Order) bool { return o.Status == model.OrderStatusNew })

	err := s.CancelOrder(ctx, &model.CancelOrder{GatewayID: "C2", OrigGatewayID: "C1"})
	if err != nil {
		t.Fatalf("cancel err=%v", err)
	}

	canceled := waitReport(t, gw, func(o model.Order) bool {
		return o.Status == model.OrderStatusCanceled
	})
	if canceled.GatewayID != "C2" || canceled.OrigGatewayID != "C1" {
		t.Errorf("canceled chain = %s/%s, want C2/C1", canceled.GatewayID, canceled.OrigGatewayID)
	}

	if err := s.CancelOrder(ctx, &model.CancelOrder{GatewayID: "C3", OrigGatewayID: "NOPE"}); err != errGatewayIDNotFound {
		t.Errorf("err = %v, want errGatewayIDNotFound", err)
	}
}

func TestModifyOrderFlow(t *testing.T) {
	s, gw := newTestOMS(t)
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrder("C1", "ABC", model.OrderSideBuy, "145", 10)); err != nil {
		t.Fatalf("add err=%v", err)
	}
	waitReport(t, gw, func(o model.Order) bool { return o.Status == model.OrderStatusNew })

	err := s.ModifyOrder(ctx, &model.ModifyOrder{
		GatewayID:     "C2",
		OrigGatewayID: "C1",
		NewPrice:      decimal.RequireFromString("144.5"),
		NewQuantity:   20,
	})
	if err != nil {
		t.Fatalf("modify err=%v", err)
	}

	replaced := waitReport(t, gw, func(o model.Order) bool {
		return o.Status == model.OrderStatusReplaced
	})
	if replaced.LeavesQuantity != 20 {
		t.Errorf("replaced leaves = %d, want 20", replaced.LeavesQuantity)
	}
	if replaced.GatewayID != "C2" || replaced.OrigGatewayID != "C1" {
		t.Errorf("replaced chain = %s/%s, want C2/C1", replaced.GatewayID, replaced.OrigGatewayID)
	}
	if !replaced.Price.Equal(decimal.RequireFromString("144.5")) {
		t.Errorf("replaced price = %s, want 144.5", replaced.Price)
	}
}

// A rejected modify must leave the resting order untouched and still
// cancelable; only the rejected request is reported back.
func TestModifyRejectKeepsOrderResting(t *testing.T) {
	s, gw := newTestOMS(t)
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrder("C1", "ABC", model.OrderSideBuy, "145", 10)); err != nil {
		t.Fatalf("add err=%v", err)
	}
	waitReport(t, gw, func(o model.Order) bool { return o.Status == model.OrderStatusNew })

	// 145.1 is off the 500-tick grid, so the book rejects the modify.
	err := s.ModifyOrder(ctx, &model.ModifyOrder{
		GatewayID:     "C2",
		OrigGatewayID: "C1",
		NewPrice:      decimal.RequireFromString("145.1"),
		NewQuantity:   20,
	})
	if err != nil {
		t.Fatalf("modify enqueue err=%v", err)
	}

	rejected := waitReport(t, gw, func(o model.Order) bool {
		return o.Status == model.OrderStatusRejected
	})
	if rejected.GatewayID != "C2" || rejected.OrigGatewayID != "C1" {
		t.Errorf("reject chain = %s/%s, want C2/C1", rejected.GatewayID, rejected.OrigGatewayID)
	}
	if rejected.RejectReason == "" {
		t.Errorf("reject report carries no reason")
	}

	snap, err := s.Depth(ctx, "ABC", 0)
	if err != nil {
		t.Fatalf("depth err=%v", err)
	}
	if len(snap.Bids) != 1 || snap.Bids[0].Qty != 10 {
		t.Fatalf("bids = %+v, want the original 10 still resting", snap.Bids)
	}

	// the original order must still accept a cancel
	if err := s.CancelOrder(ctx, &model.CancelOrder{GatewayID: "C3", OrigGatewayID: "C1"}); err != nil {
		t.Fatalf("cancel after rejected modify err=%v", err)
	}
	canceled := waitReport(t, gw, func(o model.Order) bool {
		return o.Status == model.OrderStatusCanceled
	})
	if canceled.GatewayID != "C3" {
		t.Errorf("canceled gateway id = %s, want C3", canceled.GatewayID)
	}
}

func TestModifyOrderInvalidQuantity(t *testing.T) {
	s, gw := newTestOMS(t)
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrder("C1", "ABC", model.OrderSideBuy, "145", 10)); err != nil {
		t.Fatalf("add err=%v", err)
	}
	waitReport(t, gw, func(o model.Order) bool { return o.Status == model.OrderStatusNew })

	err := s.ModifyOrder(ctx, &model.ModifyOrder{
		GatewayID:     "C2",
		OrigGatewayID: "C1",
		NewPrice:      decimal.RequireFromString("145"),
		NewQuantity:   -1,
	})
	if err != errInvalidQuantity {
		t.Fatalf("err = %v, want errInvalidQuantity", err)
	}

	snap, err := s.Depth(ctx, "ABC", 0)
	if err != nil {
		t.Fatalf("depth err=%v", err)
	}
	if len(snap.Bids) != 1 || snap.Bids[0].Qty != 10 {
		t.Fatalf("bids = %+v, want the original 10 still resting", snap.Bids)
	}

	if err := s.CancelOrder(ctx, &model.CancelOrder{GatewayID: "C3", OrigGatewayID: "C1"}); err != nil {
		t.Fatalf("cancel after invalid modify err=%v", err)
	}
	waitReport(t, gw, func(o model.Order) bool { return o.Status == model.OrderStatusCanceled })
}

func TestRejectReasonBusy(t *testing.T) {
	if got := rejectReason(matchengine.ErrBusy); got != string(matchengine.RejectBusy) {
		t.Errorf("rejectReason(ErrBusy) = %q, want %q", got, matchengine.RejectBusy)
	}
	if got := rejectReason(fmt.Errorf("enqueue: %w", matchengine.ErrBusy)); got != string(matchengine.RejectBusy) {
		t.Errorf("wrapped busy = %q, want %q", got, matchengine.RejectBusy)
	}
	if got := rejectReason(errInvalidPriceScale); got != errInvalidPriceScale.Error() {
		t.Errorf("rejectReason passthrough = %q, want %q", got, errInvalidPriceScale.Error())
	}
}
