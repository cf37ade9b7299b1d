package model

import (
	"fmt"
	"time"
)

// OrderEvent is one entry of the per-order audit stream, persisted by the
// worker and published on the event topic.
type OrderEvent struct {
	EventID       string        `gorm:"column:event_id;primaryKey" json:"event_id"`
	OrderID       string        `gorm:"column:order_id;index" json:"order_id"`
	GatewayID     string        `gorm:"column:gateway_id" json:"gateway_id"`
	OrigGatewayID string        `gorm:"column:orig_gateway_id" json:"orig_gateway_id"`
	Symbol        string        `gorm:"column:symbol" json:"symbol"`
	ExecType      OrderExecType `gorm:"column:exec_type" json:"exec_type"`
	Status        OrderStatus   `gorm:"column:status" json:"status"`
	Qty           int64         `gorm:"column:qty" json:"qty"`
	Price         string        `gorm:"column:price" json:"price"`
	LeavesQty     int64         `gorm:"column:leaves_qty" json:"leaves_qty"`
	CumQty        int64         `gorm:"column:cum_qty" json:"cum_qty"`
	Reason        string        `gorm:"column:reason" json:"reason"`
	Timestamp     time.Time     `gorm:"column:ts" json:"ts"`
}

func (OrderEvent) TableName() string {
	return "order_events"
}

func NewOrderEvent(order Order, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:       NewEventID(order.OrderID, order.ExecID),
		OrderID:       order.OrderID,
		GatewayID:     order.GatewayID,
		OrigGatewayID: order.OrigGatewayID,
		Symbol:        order.Symbol,
		ExecType:      order.ExecType,
		Status:        order.Status,
		Qty:           order.LastQuantity,
		Price:         order.Price.String(),
		LeavesQty:     order.LeavesQuantity,
		CumQty:        order.CumQuantity,
		Reason:        order.RejectReason,
		Timestamp:     ts,
	}
}

func NewEventID(orderID, execID string) string {
	return fmt.Sprintf("%s-%s", orderID, execID)
}
