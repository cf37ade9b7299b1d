package main

import (
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	fix44nos "github.com/quickfixgo/fix44/newordersingle"
	fix44ocrr "github.com/quickfixgo/fix44/ordercancelreplacerequest"
	fix44ocr "github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/shopspring/decimal"
)

type InitiatorApp struct {
	sessionID *quickfix.SessionID
}

func (a *InitiatorApp) OnCreate(sessionID quickfix.SessionID) {
	a.sessionID = &sessionID
}

func (a *InitiatorApp) OnLogon(sessionID quickfix.SessionID) {
	log.Println("Logon success", sessionID)
	sendMatchScenario(sessionID)
}

func (a *InitiatorApp) OnLogout(sessionID quickfix.SessionID)                       {}
func (a *InitiatorApp) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}
func (a *InitiatorApp) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}
func (a *InitiatorApp) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}
func (a *InitiatorApp) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	log.Println("Received:", msg)
	return nil
}

func newLimitOrder(sessionID quickfix.SessionID, side enum.Side, price, qty int64) (fix44nos.NewOrderSingle, string) {
	clOrdID := randSeq(17)
	order := fix44nos.New(
		field.NewClOrdID(clOrdID),
		field.NewSide(side),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_LIMIT))
	order.SetSymbol("ABC")
	order.SetAccount("011C399158")
	order.SetPrice(decimal.NewFromInt(price), 0)
	order.SetOrderQty(decimal.NewFromInt(qty), 0)
	order.SetTimeInForce(enum.TimeInForce_DAY)
	order.SetSenderCompID(sessionID.SenderCompID)
	order.SetTargetCompID(sessionID.TargetCompID)
	return order, clOrdID
}

// rest a buy, cross it with a smaller sell, replace the remainder down,
// then cancel what is left
func sendMatchScenario(sessionID quickfix.SessionID) {
	orderBuy, buyClOrdID := newLimitOrder(sessionID, enum.Side_BUY, 14700, 100)
	if err := quickfix.Send(orderBuy); err != nil {
		log.Println(err)
	}

	orderSell, _ := newLimitOrder(sessionID, enum.Side_SELL, 14700, 40)
	if err := quickfix.Send(orderSell); err != nil {
		log.Println(err)
	}

	time.Sleep(500 * time.Millisecond)

	replaceClOrdID := randSeq(17)
	replace := fix44ocrr.New(
		field.NewOrigClOrdID(buyClOrdID),
		field.NewClOrdID(replaceClOrdID),
		field.NewSide(enum.Side_BUY),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_LIMIT))
	replace.SetSymbol("ABC")
	replace.SetAccount("011C399158")
	replace.SetPrice(decimal.NewFromInt(14700), 0)
	replace.SetOrderQty(decimal.NewFromInt(50), 0)
	replace.SetSenderCompID(sessionID.SenderCompID)
	replace.SetTargetCompID(sessionID.TargetCompID)
	if err := quickfix.Send(replace); err != nil {
		log.Println(err)
	}

	time.Sleep(500 * time.Millisecond)

	cancel := fix44ocr.New(
		field.NewOrigClOrdID(replaceClOrdID),
		field.NewClOrdID(randSeq(17)),
		field.NewSide(enum.Side_BUY),
		field.NewTransactTime(time.Now()))
	cancel.SetSymbol("ABC")
	cancel.SetAccount("011C399158")
	cancel.SetSenderCompID(sessionID.SenderCompID)
	cancel.SetTargetCompID(sessionID.TargetCompID)
	if err := quickfix.Send(cancel); err != nil {
		log.Println(err)
	}
}

func main() {
	cfgPath := os.Args[1]
	log.Println("cfgPath:", cfgPath)
	app := &InitiatorApp{}

	cfg, err := os.Open(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	defer cfg.Close() // nolint

	settings, err := quickfix.ParseSettings(cfg)
	if err != nil {
		log.Fatal(err)
	}

	storeFactory := quickfix.NewMemoryStoreFactory()
	logFactory, _ := file.NewLogFactory(settings)
	initiator, err := quickfix.NewInitiator(app, storeFactory, settings, logFactory)
	if err != nil {
		log.Fatal(err)
	}
	err = initiator.Start()
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Initiator started...")
	select {}
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func randSeq(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
