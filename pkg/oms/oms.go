package oms

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joripage/matchengine/pkg/kafkautil"
	"github.com/joripage/matchengine/pkg/matchengine"
	eventstore "github.com/joripage/matchengine/pkg/oms/event_store"
	"github.com/joripage/matchengine/pkg/oms/model"
	riskrule "github.com/joripage/matchengine/pkg/oms/risk_rule"
)

type Config struct {
	// PriceScale is the number of decimal digits a tick-scaled price
	// carries, e.g. scale 3 stores 145.000 as 145000.
	PriceScale int32 `yaml:"price_scale"`

	DefaultTickSize  int64            `yaml:"default_tick_size"`
	TickSizeBySymbol map[string]int64 `yaml:"tick_size_by_symbol"`

	RequestBuffer           int  `yaml:"request_buffer"`
	EventBuffer             int  `yaml:"event_buffer"`
	AmendQtyDecreaseInPlace bool `yaml:"amend_qty_decrease_in_place"`

	EventTopic string `yaml:"event_topic"`
}

// OMS sits between order gateways and the matching books: it validates and
// translates gateway requests, feeds them to the per-symbol single-writer
// books, and turns the engine's event stream back into order reports, audit
// events and market-data updates.
type OMS struct {
	cfg          *Config
	orderGateway OrderGateway
	books        *matchengine.BookManager
	eventstore   eventstore.EventStore
	rules        []riskrule.RiskRule
	producer     *kafkautil.Producer
	depthCache   *DepthCache

	orderIDMapping  sync.Map // OrderID -> *model.Order
	engineIDMapping sync.Map // engine id -> *model.Order
	pendingRequests sync.Map // engine id -> *pendingRequest
	nextEngineID    atomic.Int64
	stopCh          chan struct{}
}

// pendingRequest holds a cancel or modify that was sent to the book but
// not yet acknowledged. The order itself is only mutated once the book
// acks; a reject leaves the resting order exactly as it was.
type pendingRequest struct {
	gatewayID     string
	origGatewayID string
	newPrice      decimal.Decimal
	newQuantity   int64
}

func NewOMS(cfg *Config, orderGateway OrderGateway) *OMS {
	if cfg.PriceScale == 0 {
		cfg.PriceScale = 3
	}
	if cfg.DefaultTickSize == 0 {
		cfg.DefaultTickSize = 1
	}

	books := matchengine.NewBookManager(&matchengine.BookManagerConfig{
		DefaultTickSize:         cfg.DefaultTickSize,
		TickSizeBySymbol:        cfg.TickSizeBySymbol,
		RequestBuffer:           cfg.RequestBuffer,
		EventBuffer:             cfg.EventBuffer,
		AmendQtyDecreaseInPlace: cfg.AmendQtyDecreaseInPlace,
	})

	s := &OMS{
		cfg:          cfg,
		orderGateway: orderGateway,
		books:        books,
		eventstore:   eventstore.NewInMemoryEventStore(),
		stopCh:       make(chan struct{}),
	}
	books.RegisterEventCallback(s.handleEngineEvent)

	go s.startCleaner(10 * time.Second)

	return s
}

// Books exposes the per-symbol book registry for read-side consumers.
func (s *OMS) Books() *matchengine.BookManager {
	return s.books
}

func (s *OMS) AddRiskRule(rule riskrule.RiskRule) {
	s.rules = append(s.rules, rule)
}

// SetEventProducer attaches the Kafka producer the event stream is
// published to. Optional; without it events stay in the event store only.
func (s *OMS) SetEventProducer(p *kafkautil.Producer) {
	s.producer = p
}

// SetDepthCache attaches the Redis depth snapshot cache. Optional.
func (s *OMS) SetDepthCache(c *DepthCache) {
	s.depthCache = c
}

func (s *OMS) Start(ctx context.Context) error {
	return s.orderGateway.Start(ctx)
}

func (s *OMS) Stop() {
	close(s.stopCh)
	s.books.Stop()
}

// Depth exposes a point-in-time book snapshot, best price first.
func (s *OMS) Depth(ctx context.Context, symbol string, maxLevels int) (matchengine.DepthSnapshot, error) {
	return s.books.Depth(ctx, symbol, maxLevels)
}

func (s *OMS) AddOrder(ctx context.Context, addOrder *model.AddOrder) error {
	if s.eventstore.GetOrderID(addOrder.GatewayID) != "" {
		return errDuplicateOrder
	}

	order := &model.Order{}
	order.UpdateAddOrder(addOrder, uuid.NewString(), s.nextEngineID.Add(1))

	for _, rule := range s.rules {
		if err := rule.Check(addOrder); err != nil {
			order.ApplyReject(err.Error())
			s.report(ctx, order)
			return err
		}
	}

	ticks, err := s.priceToTicks(addOrder.Price)
	if err != nil {
		order.ApplyReject(err.Error())
		s.report(ctx, order)
		return err
	}

	s.AddOrderToMap(order)
	s.eventstore.TrackGatewayChain(order.OrderID, order.GatewayID, "")

	err = s.books.SubmitNew(&matchengine.Order{
		ID:        order.EngineID,
		Symbol:    order.Symbol,
		Side:      matchengine.Side(order.Side),
		Price:     ticks,
		Qty:       order.Quantity,
		Timestamp: order.TransactTime,
	})
	if err != nil {
		s.DeleteOrder(order)
		s.eventstore.DeleteChainByOrderID(order.OrderID)
		order.ApplyReject(rejectReason(err))
		s.report(ctx, order)
		return err
	}

	if s.depthCache != nil {
		s.depthCache.Watch(order.Symbol)
	}

	// pending new until the book acknowledges
	s.report(ctx, order)
	return nil
}

func (s *OMS) CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error {
	orderID := s.eventstore.GetOrderID(cancelOrder.OrigGatewayID)
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		return errGatewayIDNotFound
	}

	if !order.CanCancel() {
		return errInvalidOrderStatus
	}

	s.eventstore.TrackGatewayChain(order.OrderID, cancelOrder.GatewayID, cancelOrder.OrigGatewayID)
	s.pendingRequests.Store(order.EngineID, &pendingRequest{
		gatewayID:     cancelOrder.GatewayID,
		origGatewayID: cancelOrder.OrigGatewayID,
	})

	if err := s.books.Cancel(order.Symbol, order.EngineID); err != nil {
		s.pendingRequests.Delete(order.EngineID)
		return err
	}
	return nil
}

func (s *OMS) ModifyOrder(ctx context.Context, modifyOrder *model.ModifyOrder) error {
	orderID := s.eventstore.GetOrderID(modifyOrder.OrigGatewayID)
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		return errGatewayIDNotFound
	}

	if !order.CanModify() {
		return errInvalidOrderStatus
	}

	if modifyOrder.NewQuantity <= 0 {
		return errInvalidQuantity
	}
	ticks, err := s.priceToTicks(modifyOrder.NewPrice)
	if err != nil {
		return err
	}

	s.eventstore.TrackGatewayChain(order.OrderID, modifyOrder.GatewayID, modifyOrder.OrigGatewayID)
	s.pendingRequests.Store(order.EngineID, &pendingRequest{
		gatewayID:     modifyOrder.GatewayID,
		origGatewayID: modifyOrder.OrigGatewayID,
		newPrice:      modifyOrder.NewPrice,
		newQuantity:   modifyOrder.NewQuantity,
	})

	if err := s.books.Modify(order.Symbol, order.EngineID, modifyOrder.NewQuantity, ticks); err != nil {
		s.pendingRequests.Delete(order.EngineID)
		return err
	}
	return nil
}

func (s *OMS) takePending(engineID int64) *pendingRequest {
	v, ok := s.pendingRequests.LoadAndDelete(engineID)
	if !ok {
		return nil
	}
	return v.(*pendingRequest)
}

// handleEngineEvent runs on the per-symbol forwarder goroutine, so events
// for one symbol are applied in engine order.
func (s *OMS) handleEngineEvent(ev matchengine.Event) {
	ctx := context.Background()
	switch ev.Type {
	case matchengine.EventAck:
		order, err := s.GetOrderByEngineID(ev.OrderID)
		if err != nil {
			zap.S().Warnf("ack for unknown engine id %d", ev.OrderID)
			return
		}
		order.ApplyAck(ev.RestingQty)
		s.report(ctx, order)

	case matchengine.EventTrade:
		price := s.ticksToPrice(ev.Price)
		if maker, err := s.GetOrderByEngineID(ev.MakerOrderID); err == nil {
			maker.ApplyTrade(ev.Qty, price)
			s.report(ctx, maker)
		} else {
			zap.S().Warnf("trade maker engine id %d not found", ev.MakerOrderID)
		}
		if taker, err := s.GetOrderByEngineID(ev.TakerOrderID); err == nil {
			taker.ApplyTrade(ev.Qty, price)
			s.report(ctx, taker)
		} else {
			zap.S().Warnf("trade taker engine id %d not found", ev.TakerOrderID)
		}

	case matchengine.EventCancelAck:
		order, err := s.GetOrderByEngineID(ev.OrderID)
		if err != nil {
			return
		}
		if pending := s.takePending(ev.OrderID); pending != nil {
			order.GatewayID = pending.gatewayID
			order.OrigGatewayID = pending.origGatewayID
		}
		order.ApplyCancel()
		s.report(ctx, order)

	case matchengine.EventModifyAck:
		order, err := s.GetOrderByEngineID(ev.OrderID)
		if err != nil {
			return
		}
		if pending := s.takePending(ev.OrderID); pending != nil {
			order.ApplyReplace(&model.ModifyOrder{
				GatewayID:     pending.gatewayID,
				OrigGatewayID: pending.origGatewayID,
				NewPrice:      pending.newPrice,
				NewQuantity:   pending.newQuantity,
			}, ev.RestingQty)
		} else {
			order.Status = model.OrderStatusReplaced
			order.ExecType = model.ExecTypeReplaced
			order.LeavesQuantity = ev.RestingQty
		}
		if ev.RestingQty == 0 && order.CumQuantity >= order.Quantity {
			order.Status = model.OrderStatusFilled
		}
		s.report(ctx, order)

	case matchengine.EventReject:
		order, err := s.GetOrderByEngineID(ev.OrderID)
		if err != nil {
			return
		}
		if pending := s.takePending(ev.OrderID); pending != nil {
			// cancel/modify reject: the order stays on the book untouched,
			// only the rejected request is reported back.
			rej := *order
			rej.GatewayID = pending.gatewayID
			rej.OrigGatewayID = pending.origGatewayID
			rej.Status = model.OrderStatusRejected
			rej.ExecType = model.ExecTypeRejected
			rej.RejectReason = string(ev.Reason)
			s.report(ctx, &rej)
			return
		}
		order.ApplyReject(string(ev.Reason))
		s.report(ctx, order)
	}
}

// report snapshots the order, appends the audit event, notifies the
// gateway and publishes on the event topic.
func (s *OMS) report(ctx context.Context, order *model.Order) {
	bkOrder := *order
	bkOrder.ExecID = uuid.NewString()
	now := time.Now()

	ev := model.NewOrderEvent(bkOrder, now)
	s.eventstore.AddEvent(ev)
	s.orderGateway.OnOrderReport(ctx, bkOrder)

	if s.producer != nil {
		if err := s.producer.PublishJSON(ctx, s.cfg.EventTopic, bkOrder.Symbol, ev, nil); err != nil {
			zap.S().Warnf("publish order event fail: %v", err)
		}
	}
}

// rejectReason maps engine admission errors onto wire reject reasons.
func rejectReason(err error) string {
	if errors.Is(err, matchengine.ErrBusy) {
		return string(matchengine.RejectBusy)
	}
	return err.Error()
}

func (s *OMS) priceToTicks(price decimal.Decimal) (int64, error) {
	shifted := price.Shift(s.cfg.PriceScale)
	if !shifted.IsInteger() {
		return 0, errInvalidPriceScale
	}
	return shifted.IntPart(), nil
}

func (s *OMS) ticksToPrice(ticks int64) decimal.Decimal {
	return decimal.New(ticks, -s.cfg.PriceScale)
}
