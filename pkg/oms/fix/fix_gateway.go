package fixgateway

import (
	"context"
	"errors"
	"sync"

	"github.com/joripage/matchengine/pkg/oms"
	"github.com/joripage/matchengine/pkg/oms/model"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"go.uber.org/zap"
)

// FixGateway accepts FIX 4.4 sessions and bridges them to the OMS.
// Order flow goes ClOrdID -> OMS gateway id; execution reports come back
// through OnOrderReport and are routed to the originating session.
type FixGateway struct {
	cfg         *FixGatewayConfig
	app         *Application
	omsInstance oms.IOMS

	requestMapping sync.Map
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	fm := &FixGateway{
		cfg:            cfg,
		requestMapping: sync.Map{},
	}

	return fm
}

func (s *FixGateway) AddOmsInstance(o oms.IOMS) {
	s.omsInstance = o
}

func (s *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		zap.S().Errorf("start fix app err=%v", err)
		return err
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

func (s *FixGateway) AddOrder(ctx context.Context, newOrderSingle *NewOrderSingle) {
	side := map[enum.Side]model.OrderSide{
		enum.Side_BUY:  model.OrderSideBuy,
		enum.Side_SELL: model.OrderSideSell,
	}[newOrderSingle.Side]

	s.addRequestToMap(newOrderSingle.ClOrdID, newOrderSingle.SessionID)

	err := s.omsInstance.AddOrder(ctx, &model.AddOrder{
		GatewayID:    newOrderSingle.ClOrdID,
		Account:      newOrderSingle.Account,
		Symbol:       newOrderSingle.Symbol,
		Side:         side,
		Price:        newOrderSingle.Price,
		Quantity:     newOrderSingle.OrderQty.IntPart(),
		TransactTime: newOrderSingle.TransactTime,
	})
	if err != nil {
		zap.S().Warnf("add order clOrdID=%s err=%v", newOrderSingle.ClOrdID, err)
	}
}

func (s *FixGateway) CancelOrder(ctx context.Context, req *OrderCancelRequest) {
	s.addRequestToMap(req.ClOrdID, req.SessionID)

	err := s.omsInstance.CancelOrder(ctx, &model.CancelOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
	})
	if err != nil {
		zap.S().Warnf("cancel order clOrdID=%s err=%v", req.ClOrdID, err)
	}
}

func (s *FixGateway) ModifyOrder(ctx context.Context, req *OrderCancelReplaceRequest) {
	s.addRequestToMap(req.ClOrdID, req.SessionID)

	err := s.omsInstance.ModifyOrder(ctx, &model.ModifyOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
		NewPrice:      req.Price,
		NewQuantity:   req.OrderQty.IntPart(),
	})
	if err != nil {
		zap.S().Warnf("modify order clOrdID=%s err=%v", req.ClOrdID, err)
	}
}

// OnOrderReport implements oms.OrderGateway. Reports are routed back to
// the session that sent the most recent request in the order's chain.
func (s *FixGateway) OnOrderReport(ctx context.Context, order model.Order) {
	sessionID, err := s.getRequestByClOrdID(order.GatewayID)
	if err != nil {
		zap.S().Warnf("session for clOrdID=%s not found", order.GatewayID)
		return
	}

	if err := sendExecutionReport(order, sessionID); err != nil {
		zap.S().Warnf("send execution report orderID=%s err=%v", order.OrderID, err)
	}
}

func (s *FixGateway) addRequestToMap(clOrdID string, sessionID *quickfix.SessionID) {
	s.requestMapping.Store(clOrdID, sessionID)
}

func (s *FixGateway) getRequestByClOrdID(clOrdID string) (*quickfix.SessionID, error) {
	v, ok := s.requestMapping.Load(clOrdID)
	if !ok {
		return nil, errors.New("clOrdID not found")
	}

	return v.(*quickfix.SessionID), nil
}
