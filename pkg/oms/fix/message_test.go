package fixgateway

import (
	"testing"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"github.com/shopspring/decimal"

	"github.com/joripage/matchengine/pkg/oms/model"
)

var testOrder = model.Order{
	GatewayID:      "C1",
	OrigGatewayID:  "C0",
	Account:        "ACC1",
	Symbol:         "VN30F2509",
	Side:           model.OrderSideBuy,
	Price:          decimal.NewFromFloat(100.5),
	Quantity:       100,
	TransactTime:   time.Now(),
	OrderID:        "O1",
	ExecID:         "E1",
	Status:         model.OrderStatusPartiallyFilled,
	ExecType:       model.ExecTypeTrade,
	CumQuantity:    40,
	LeavesQuantity: 60,
	LastQuantity:   40,
	LastPrice:      decimal.NewFromFloat(100.5),
}

func TestBuildExecutionReport(t *testing.T) {
	msg := execReportPool.Get()
	defer execReportPool.Put(msg)

	report := buildExecutionReport(msg, testOrder)

	ordStatus, err := report.GetOrdStatus()
	if err != nil {
		t.Fatalf("get OrdStatus err=%v", err)
	}
	if ordStatus != enum.OrdStatus_PARTIALLY_FILLED {
		t.Errorf("OrdStatus = %v, want %v", ordStatus, enum.OrdStatus_PARTIALLY_FILLED)
	}

	execType, err := report.GetExecType()
	if err != nil {
		t.Fatalf("get ExecType err=%v", err)
	}
	if execType != enum.ExecType_TRADE {
		t.Errorf("ExecType = %v, want %v", execType, enum.ExecType_TRADE)
	}

	clOrdID, _ := report.GetClOrdID()
	if clOrdID != "C1" {
		t.Errorf("ClOrdID = %s, want C1", clOrdID)
	}

	origClOrdID, _ := report.GetOrigClOrdID()
	if origClOrdID != "C0" {
		t.Errorf("OrigClOrdID = %s, want C0", origClOrdID)
	}

	leaves, _ := report.GetLeavesQty()
	if !leaves.Equal(decimal.NewFromInt(60)) {
		t.Errorf("LeavesQty = %s, want 60", leaves)
	}

	lastQty, _ := report.GetLastQty()
	if !lastQty.Equal(decimal.NewFromInt(40)) {
		t.Errorf("LastQty = %s, want 40", lastQty)
	}
}

func TestBuildExecutionReportRejectText(t *testing.T) {
	order := testOrder
	order.Status = model.OrderStatusRejected
	order.ExecType = model.ExecTypeRejected
	order.LastQuantity = 0
	order.RejectReason = "INVALID_PRICE"

	msg := execReportPool.Get()
	defer execReportPool.Put(msg)

	report := buildExecutionReport(msg, order)

	text, err := report.GetText()
	if err != nil {
		t.Fatalf("get Text err=%v", err)
	}
	if text != "INVALID_PRICE" {
		t.Errorf("Text = %s, want INVALID_PRICE", text)
	}

	if report.HasLastQty() {
		t.Errorf("reject report should not carry LastQty")
	}
}

func TestMessagePoolReset(t *testing.T) {
	msg := execReportPool.Get()
	buildExecutionReport(msg, testOrder)
	execReportPool.Put(msg)

	reused := execReportPool.Get()
	defer execReportPool.Put(reused)

	if reused.Body.Has(tag.ClOrdID) {
		t.Errorf("pooled message still carries ClOrdID after reset")
	}
}

// ----- Benchmarks -----

func buildExecutionReportNew(order model.Order) quickfix.Messagable {
	execReportMsg := executionreport.New(
		field.NewOrderID(order.OrderID),
		field.NewExecID(order.ExecID),
		field.NewExecType(ExecTypeMapping[order.ExecType]),
		field.NewOrdStatus(OrderStatusMapping[order.Status]),
		field.NewSide(SideMapping[order.Side]),
		field.NewLeavesQty(decimal.NewFromInt(order.LeavesQuantity), 0),
		field.NewCumQty(decimal.NewFromInt(order.CumQuantity), 0),
		field.NewAvgPx(order.LastPrice, 4),
	)
	execReportMsg.SetClOrdID(order.GatewayID)
	execReportMsg.SetOrigClOrdID(order.OrigGatewayID)
	execReportMsg.SetAccount(order.Account)
	execReportMsg.SetOrderQty(decimal.NewFromInt(order.Quantity), 0)
	execReportMsg.SetPrice(order.Price, 4)
	execReportMsg.SetTransactTime(order.TransactTime)
	return execReportMsg
}

func BenchmarkExecReportNew(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = buildExecutionReportNew(testOrder)
	}
}

func BenchmarkExecReportPool(b *testing.B) {
	for i := 0; i < b.N; i++ {
		msg := execReportPool.Get()
		_ = buildExecutionReport(msg, testOrder)
		execReportPool.Put(msg)
	}
}
