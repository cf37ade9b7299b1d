package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newAckedOrder(qty int64) *Order {
	o := &Order{}
	o.UpdateAddOrder(&AddOrder{
		GatewayID:    "C1",
		Account:      "ACC1",
		Symbol:       "ABC",
		Side:         OrderSideBuy,
		Price:        decimal.RequireFromString("145"),
		Quantity:     qty,
		TransactTime: time.Now(),
	}, "O1", 1)
	o.ApplyAck(qty)
	return o
}

func TestOrderLifecycleFill(t *testing.T) {
	o := newAckedOrder(100)
	if o.Status != OrderStatusNew {
		t.Fatalf("status = %s, want New", o.Status)
	}

	o.ApplyTrade(40, decimal.RequireFromString("145"))
	if o.Status != OrderStatusPartiallyFilled || o.CumQuantity != 40 || o.LeavesQuantity != 60 {
		t.Errorf("after partial: status=%s cum=%d leaves=%d", o.Status, o.CumQuantity, o.LeavesQuantity)
	}

	o.ApplyTrade(60, decimal.RequireFromString("145"))
	if o.Status != OrderStatusFilled || o.LeavesQuantity != 0 {
		t.Errorf("after fill: status=%s leaves=%d", o.Status, o.LeavesQuantity)
	}
	if !o.IsEnd() {
		t.Errorf("filled order should be terminal")
	}
	if o.CanCancel() {
		t.Errorf("filled order should not be cancelable")
	}
}

func TestOrderLifecycleCancel(t *testing.T) {
	o := newAckedOrder(100)
	if !o.CanCancel() {
		t.Fatalf("new order should be cancelable")
	}

	o.ApplyCancel()
	if o.Status != OrderStatusCanceled || o.LeavesQuantity != 0 {
		t.Errorf("after cancel: status=%s leaves=%d", o.Status, o.LeavesQuantity)
	}
	if !o.IsEnd() {
		t.Errorf("canceled order should be terminal")
	}
}

func TestOrderLifecycleReplace(t *testing.T) {
	o := newAckedOrder(100)

	o.ApplyReplace(&ModifyOrder{
		GatewayID:     "C2",
		OrigGatewayID: "C1",
		NewPrice:      decimal.RequireFromString("144.5"),
		NewQuantity:   50,
	}, 50)

	if o.Status != OrderStatusReplaced {
		t.Errorf("status = %s, want Replaced", o.Status)
	}
	if o.GatewayID != "C2" || o.OrigGatewayID != "C1" {
		t.Errorf("chain = %s/%s, want C2/C1", o.GatewayID, o.OrigGatewayID)
	}
	if !o.CanModify() {
		t.Errorf("replaced order should still be modifiable")
	}
}

func TestOrderReject(t *testing.T) {
	o := &Order{}
	o.UpdateAddOrder(&AddOrder{GatewayID: "C1", Quantity: 10}, "O1", 1)
	o.ApplyReject("INVALID_PRICE")

	if o.Status != OrderStatusRejected || o.RejectReason != "INVALID_PRICE" {
		t.Errorf("status=%s reason=%s", o.Status, o.RejectReason)
	}
	if !o.IsEnd() {
		t.Errorf("rejected order should be terminal")
	}
}
