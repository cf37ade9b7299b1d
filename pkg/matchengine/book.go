package matchengine

import "context"

type requestKind int

const (
	reqSubmit requestKind = iota
	reqCancel
	reqModify
	reqDepth
)

type request struct {
	kind     requestKind
	order    *Order
	orderID  int64
	newQty   int64
	newPrice int64

	maxLevels int
	depthCh   chan DepthSnapshot
}

// BookConfig sizes the single-writer queues around one Engine.
type BookConfig struct {
	Engine Config

	// RequestBuffer bounds the inbound queue; a full queue rejects with
	// ErrBusy instead of reordering or dropping.
	RequestBuffer int

	// EventBuffer bounds the outbound queue so a slow consumer does not
	// stall matching until the buffer fills.
	EventBuffer int
}

const (
	defaultRequestBuffer = 1024
	defaultEventBuffer   = 4096
)

// Book is the single-writer execution context for one symbol: exactly one
// goroutine applies requests to the Engine in arrival order, so price-time
// priority is defined by a single linearized stream. Depth queries go
// through the same queue and observe a consistent point-in-time book.
type Book struct {
	engine   *Engine
	requests chan request
	events   chan Event
	stopCh   chan struct{}
	done     chan struct{}
}

func NewBook(cfg BookConfig) *Book {
	if cfg.RequestBuffer <= 0 {
		cfg.RequestBuffer = defaultRequestBuffer
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	return &Book{
		engine:   NewEngine(cfg.Engine),
		requests: make(chan request, cfg.RequestBuffer),
		events:   make(chan Event, cfg.EventBuffer),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (b *Book) Symbol() string {
	return b.engine.Symbol()
}

// Start launches the writer goroutine. Events() is closed once the loop
// exits; requests still queued at Stop are discarded.
func (b *Book) Start(ctx context.Context) {
	go b.run(ctx)
}

func (b *Book) Stop() {
	select {
	case <-b.stopCh:
	default:
		close(b.stopCh)
	}
	<-b.done
}

// Events is the book's ordered output stream. Events appear in the exact
// sequence the engine produced them.
func (b *Book) Events() <-chan Event {
	return b.events
}

func (b *Book) run(ctx context.Context) {
	defer close(b.done)
	defer close(b.events)
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case req := <-b.requests:
			b.handle(req)
		}
	}
}

func (b *Book) handle(req request) {
	switch req.kind {
	case reqSubmit:
		b.emit(b.engine.SubmitNew(req.order))
	case reqCancel:
		b.emit(b.engine.Cancel(req.orderID))
	case reqModify:
		b.emit(b.engine.Modify(req.orderID, req.newQty, req.newPrice))
	case reqDepth:
		req.depthCh <- b.engine.Depth(req.maxLevels)
	}
}

// emit forwards engine events to the outbound stream. A Stop while the
// buffer is full abandons the remaining events rather than blocking the
// writer goroutine forever.
func (b *Book) emit(events []Event) {
	for _, ev := range events {
		select {
		case b.events <- ev:
		case <-b.stopCh:
			return
		}
	}
}

func (b *Book) enqueue(req request) error {
	select {
	case <-b.stopCh:
		return ErrBookStopped
	default:
	}
	select {
	case b.requests <- req:
		return nil
	default:
		return ErrBusy
	}
}

// SubmitNew enqueues a new order. ErrBusy means the request was never
// accepted and the caller may retry; nothing was reordered or dropped.
func (b *Book) SubmitNew(o *Order) error {
	return b.enqueue(request{kind: reqSubmit, order: o})
}

func (b *Book) Cancel(orderID int64) error {
	return b.enqueue(request{kind: reqCancel, orderID: orderID})
}

func (b *Book) Modify(orderID, newQty, newPrice int64) error {
	return b.enqueue(request{kind: reqModify, orderID: orderID, newQty: newQty, newPrice: newPrice})
}

// Depth runs a read-only snapshot through the writer queue. maxLevels <= 0
// returns the whole book.
func (b *Book) Depth(ctx context.Context, maxLevels int) (DepthSnapshot, error) {
	ch := make(chan DepthSnapshot, 1)
	if err := b.enqueue(request{kind: reqDepth, maxLevels: maxLevels, depthCh: ch}); err != nil {
		return DepthSnapshot{}, err
	}
	select {
	case snap := <-ch:
		return snap, nil
	case <-ctx.Done():
		return DepthSnapshot{}, ctx.Err()
	case <-b.done:
		return DepthSnapshot{}, ErrBookStopped
	}
}
