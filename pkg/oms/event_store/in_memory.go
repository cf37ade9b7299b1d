package eventstore

import (
	"sync"

	"github.com/joripage/matchengine/pkg/oms/model"
)

type InMemoryEventStore struct {
	mu              sync.RWMutex
	events          map[string][]*model.OrderEvent
	latestGatewayID map[string]string // OrderID -> current GatewayID
	gatewayChain    map[string]string // GatewayID -> OrigGatewayID
	orderByGateway  map[string]string // GatewayID -> OrderID
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events:          make(map[string][]*model.OrderEvent),
		latestGatewayID: make(map[string]string),
		gatewayChain:    make(map[string]string),
		orderByGateway:  make(map[string]string),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.OrderID] = append(s.events[ev.OrderID], ev)
	s.trackLocked(ev.OrderID, ev.GatewayID, ev.OrigGatewayID)
}

// TrackGatewayChain links a gateway id to its predecessor so that a
// cancel/replace chain can be walked back to the original request.
func (s *InMemoryEventStore) TrackGatewayChain(orderID, gatewayID, origGatewayID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackLocked(orderID, gatewayID, origGatewayID)
}

func (s *InMemoryEventStore) trackLocked(orderID, gatewayID, origGatewayID string) {
	s.latestGatewayID[orderID] = gatewayID
	s.orderByGateway[gatewayID] = orderID
	if origGatewayID != "" {
		s.gatewayChain[gatewayID] = origGatewayID
	}
}

func (s *InMemoryEventStore) GetLatestGatewayID(orderID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestGatewayID[orderID]
}

func (s *InMemoryEventStore) GetOrigGatewayID(gatewayID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gatewayChain[gatewayID]
}

func (s *InMemoryEventStore) GetOrderID(gatewayID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderByGateway[gatewayID]
}

// ReconstructChain walks backward to the full chain of gateway ids.
func (s *InMemoryEventStore) ReconstructChain(gatewayID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []string
	curr := gatewayID
	for curr != "" {
		chain = append(chain, curr)
		curr = s.gatewayChain[curr]
	}
	return chain
}

func (s *InMemoryEventStore) DeleteChainByOrderID(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	curr := s.latestGatewayID[orderID]
	for curr != "" {
		next := s.gatewayChain[curr]
		delete(s.gatewayChain, curr)
		delete(s.orderByGateway, curr)
		curr = next
	}
	delete(s.latestGatewayID, orderID)
	delete(s.events, orderID)
}
