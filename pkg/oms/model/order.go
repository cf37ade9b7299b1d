package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingNew      OrderStatus = "PendingNew"
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusReplaced        OrderStatus = "Replaced"
	OrderStatusRejected        OrderStatus = "Rejected"
)

type OrderExecType string

const (
	ExecTypePendingNew OrderExecType = "PendingNew"
	ExecTypeNew        OrderExecType = "New"
	ExecTypeTrade      OrderExecType = "Trade"
	ExecTypeCanceled   OrderExecType = "Canceled"
	ExecTypeReplaced   OrderExecType = "Replaced"
	ExecTypeRejected   OrderExecType = "Rejected"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Order is the gateway-facing view of one order: decimal prices at the
// boundary, FIX-style status lifecycle, running fill totals.
type Order struct {
	// init info
	GatewayID     string
	OrigGatewayID string
	Account       string
	Symbol        string
	Side          OrderSide
	Price         decimal.Decimal
	Quantity      int64
	TransactTime  time.Time

	// calculated info
	OrderID        string
	EngineID       int64
	ExecID         string
	Status         OrderStatus
	ExecType       OrderExecType
	CumQuantity    int64
	LeavesQuantity int64
	LastQuantity   int64
	LastPrice      decimal.Decimal
	RejectReason   string
}

func (o *Order) UpdateAddOrder(add *AddOrder, orderID string, engineID int64) {
	o.GatewayID = add.GatewayID
	o.Account = add.Account
	o.Symbol = add.Symbol
	o.Side = add.Side
	o.Price = add.Price
	o.Quantity = add.Quantity
	o.TransactTime = add.TransactTime
	o.OrderID = orderID
	o.EngineID = engineID
	o.Status = OrderStatusPendingNew
	o.ExecType = ExecTypePendingNew
	o.LeavesQuantity = add.Quantity
}

func (o *Order) ApplyAck(restingQty int64) {
	o.LeavesQuantity = restingQty
	if o.CumQuantity == 0 {
		o.Status = OrderStatusNew
		o.ExecType = ExecTypeNew
	}
}

func (o *Order) ApplyTrade(qty int64, price decimal.Decimal) {
	o.CumQuantity += qty
	o.LeavesQuantity -= qty
	o.LastQuantity = qty
	o.LastPrice = price
	o.ExecType = ExecTypeTrade
	if o.LeavesQuantity <= 0 {
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartiallyFilled
	}
}

func (o *Order) ApplyCancel() {
	o.Status = OrderStatusCanceled
	o.ExecType = ExecTypeCanceled
	o.LeavesQuantity = 0
}

func (o *Order) ApplyReplace(modify *ModifyOrder, restingQty int64) {
	o.GatewayID = modify.GatewayID
	o.OrigGatewayID = modify.OrigGatewayID
	o.Price = modify.NewPrice
	o.Quantity = modify.NewQuantity
	o.LeavesQuantity = restingQty
	o.Status = OrderStatusReplaced
	o.ExecType = ExecTypeReplaced
}

func (o *Order) ApplyReject(reason string) {
	o.Status = OrderStatusRejected
	o.ExecType = ExecTypeRejected
	o.RejectReason = reason
	o.LeavesQuantity = 0
}

func (o *Order) CanCancel() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled, OrderStatusReplaced:
		return true
	}
	return false
}

func (o *Order) CanModify() bool {
	return o.CanCancel()
}

func (o *Order) IsEnd() bool {
	switch o.Status {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected:
		return true
	}
	return false
}
