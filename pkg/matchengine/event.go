package matchengine

type EventType string

const (
	EventAck       EventType = "ACK"
	EventTrade     EventType = "TRADE"
	EventCancelAck EventType = "CANCEL_ACK"
	EventModifyAck EventType = "MODIFY_ACK"
	EventReject    EventType = "REJECT"
)

type RejectReason string

const (
	RejectInvalidQuantity RejectReason = "INVALID_QUANTITY"
	RejectInvalidPrice    RejectReason = "INVALID_PRICE"
	RejectDuplicateID     RejectReason = "DUPLICATE_ID"
	RejectNotFound        RejectReason = "NOT_FOUND"
	RejectBusy            RejectReason = "BUSY"
)

// Event is a single entry of the engine's ordered output stream. Which
// fields are set depends on Type: trades carry maker/taker/price/qty,
// acks carry OrderID and RestingQty, rejects carry OrderID and Reason.
type Event struct {
	Type   EventType
	Symbol string

	OrderID    int64
	RestingQty int64

	MakerOrderID int64
	TakerOrderID int64
	Price        int64
	Qty          int64
	Seq          uint64

	Reason RejectReason
}

func ack(symbol string, orderID, restingQty int64) Event {
	return Event{Type: EventAck, Symbol: symbol, OrderID: orderID, RestingQty: restingQty}
}

func trade(symbol string, makerID, takerID, price, qty int64, seq uint64) Event {
	return Event{
		Type:         EventTrade,
		Symbol:       symbol,
		MakerOrderID: makerID,
		TakerOrderID: takerID,
		Price:        price,
		Qty:          qty,
		Seq:          seq,
	}
}

func reject(symbol string, orderID int64, reason RejectReason) Event {
	return Event{Type: EventReject, Symbol: symbol, OrderID: orderID, Reason: reason}
}
