package fixgateway

import (
	"sync"

	"github.com/joripage/matchengine/pkg/oms/model"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
)

var (
	OrderStatusMapping map[model.OrderStatus]enum.OrdStatus = map[model.OrderStatus]enum.OrdStatus{
		model.OrderStatusPendingNew:      enum.OrdStatus_PENDING_NEW,
		model.OrderStatusNew:             enum.OrdStatus_NEW,
		model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
		model.OrderStatusFilled:          enum.OrdStatus_FILLED,
		model.OrderStatusCanceled:        enum.OrdStatus_CANCELED,
		model.OrderStatusReplaced:        enum.OrdStatus_REPLACED,
		model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
	}

	ExecTypeMapping map[model.OrderExecType]enum.ExecType = map[model.OrderExecType]enum.ExecType{
		model.ExecTypePendingNew: enum.ExecType_PENDING_NEW,
		model.ExecTypeNew:        enum.ExecType_NEW,
		model.ExecTypeTrade:      enum.ExecType_TRADE,
		model.ExecTypeCanceled:   enum.ExecType_CANCELED,
		model.ExecTypeReplaced:   enum.ExecType_REPLACED,
		model.ExecTypeRejected:   enum.ExecType_REJECTED,
	}

	SideMapping map[model.OrderSide]enum.Side = map[model.OrderSide]enum.Side{
		model.OrderSideBuy:  enum.Side_BUY,
		model.OrderSideSell: enum.Side_SELL,
	}
)

// MessagePool recycles quickfix messages between execution reports.
type MessagePool struct {
	pool sync.Pool
}

func NewMessagePool() *MessagePool {
	return &MessagePool{
		pool: sync.Pool{
			New: func() interface{} {
				m := quickfix.NewMessage()
				resetMessage(m)
				return m
			},
		},
	}
}

// Get returns a reset message from the pool.
func (mp *MessagePool) Get() *quickfix.Message {
	m := mp.pool.Get().(*quickfix.Message)
	resetMessage(m)
	return m
}

// Put resets the message before returning it to the pool.
func (mp *MessagePool) Put(m *quickfix.Message) {
	resetMessage(m)
	mp.pool.Put(m)
}

func resetMessage(m *quickfix.Message) {
	m.Header.Init()
	m.Body.Init()
	m.Trailer.Init()
	m.Header.Clear()
	m.Body.Clear()
	m.Trailer.Clear()
}

var execReportPool = NewMessagePool()

func sendExecutionReport(order model.Order, sessionID *quickfix.SessionID) error {
	msg := execReportPool.Get()
	execReportMsg := buildExecutionReport(msg, order)

	err := quickfix.SendToTarget(execReportMsg, *sessionID)

	execReportPool.Put(msg)

	return err
}

func buildExecutionReport(msg *quickfix.Message, order model.Order) executionreport.ExecutionReport {
	execReportMsg := executionreport.FromMessage(msg)

	execReportMsg.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	execReportMsg.SetOrderID(order.OrderID)
	execReportMsg.SetExecID(order.ExecID)
	execReportMsg.SetExecType(ExecTypeMapping[order.ExecType])
	execReportMsg.SetOrdStatus(OrderStatusMapping[order.Status])
	execReportMsg.SetSide(SideMapping[order.Side])
	execReportMsg.SetSymbol(order.Symbol)
	execReportMsg.SetLeavesQty(decimal.NewFromInt(order.LeavesQuantity), 0)
	execReportMsg.SetCumQty(decimal.NewFromInt(order.CumQuantity), 0)

	execReportMsg.SetClOrdID(order.GatewayID)
	if order.OrigGatewayID != "" {
		execReportMsg.SetOrigClOrdID(order.OrigGatewayID)
	}
	execReportMsg.SetAccount(order.Account)
	execReportMsg.SetOrderQty(decimal.NewFromInt(order.Quantity), 0)
	execReportMsg.SetPrice(order.Price, 4)
	execReportMsg.SetTransactTime(order.TransactTime)
	if order.LastQuantity > 0 {
		execReportMsg.SetLastQty(decimal.NewFromInt(order.LastQuantity), 0)
		execReportMsg.SetLastPx(order.LastPrice, 4)
	}
	if order.RejectReason != "" {
		execReportMsg.SetText(order.RejectReason)
	}

	return execReportMsg
}
