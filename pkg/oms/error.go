package oms

import "errors"

var (
	errDuplicateOrder     = errors.New("duplicate order")
	errOrderIDNotFound    = errors.New("orderID not found")
	errGatewayIDNotFound  = errors.New("gatewayID not found")
	errInvalidOrderStatus = errors.New("invalid order status")
	errInvalidQuantity    = errors.New("invalid quantity")
	errInvalidPriceScale  = errors.New("price not representable at book scale")
)
