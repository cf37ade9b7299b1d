package eventstore

import "github.com/joripage/matchengine/pkg/oms/model"

type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	TrackGatewayChain(orderID, gatewayID, origGatewayID string)
	GetLatestGatewayID(orderID string) string
	GetOrigGatewayID(gatewayID string) string
	GetOrderID(gatewayID string) string
	ReconstructChain(gatewayID string) []string
	DeleteChainByOrderID(orderID string)
}
