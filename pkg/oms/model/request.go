package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AddOrder struct {
	GatewayID    string
	Account      string
	Symbol       string
	Side         OrderSide
	Price        decimal.Decimal
	Quantity     int64
	TransactTime time.Time
}

type CancelOrder struct {
	GatewayID     string
	OrigGatewayID string
}

type ModifyOrder struct {
	GatewayID     string
	OrigGatewayID string
	NewPrice      decimal.Decimal
	NewQuantity   int64
}
