package oms

import (
	"time"

	"github.com/joripage/matchengine/pkg/oms/model"
)

func (s *OMS) AddOrderToMap(order *model.Order) {
	s.orderIDMapping.Store(order.OrderID, order)
	s.engineIDMapping.Store(order.EngineID, order)
}

func (s *OMS) GetOrderByOrderID(orderID string) (*model.Order, error) {
	v, ok := s.orderIDMapping.Load(orderID)
	if !ok {
		return nil, errOrderIDNotFound
	}
	return v.(*model.Order), nil
}

func (s *OMS) GetOrderByEngineID(engineID int64) (*model.Order, error) {
	v, ok := s.engineIDMapping.Load(engineID)
	if !ok {
		return nil, errOrderIDNotFound
	}
	return v.(*model.Order), nil
}

func (s *OMS) DeleteOrder(order *model.Order) {
	s.orderIDMapping.Delete(order.OrderID)
	s.engineIDMapping.Delete(order.EngineID)
}

func (s *OMS) startCleaner(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup drops terminal orders from the in-memory indexes; their audit
// trail lives on in the event topic and the worker's database.
func (s *OMS) cleanup() {
	s.orderIDMapping.Range(func(k, v any) bool {
		order := v.(*model.Order)
		if order.IsEnd() {
			s.DeleteOrder(order)
			s.eventstore.DeleteChainByOrderID(order.OrderID)
		}
		return true
	})
}
