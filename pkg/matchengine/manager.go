package matchengine

import (
	"context"
	"sync"
)

// BookManagerConfig carries the defaults applied to every symbol plus
// per-symbol tick size overrides.
type BookManagerConfig struct {
	DefaultTickSize         int64
	TickSizeBySymbol        map[string]int64
	RequestBuffer           int
	EventBuffer             int
	AmendQtyDecreaseInPlace bool
}

// BookManager owns one Book per symbol. Books share nothing, so distinct
// symbols match fully in parallel.
type BookManager struct {
	books     sync.Map
	cfg       *BookManagerConfig
	callbacks []func(Event)
	cbMu      sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewBookManager(cfg *BookManagerConfig) *BookManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &BookManager{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// RegisterEventCallback subscribes to the event streams of all books,
// current and future. Callbacks for one symbol run on that book's forwarder
// goroutine, so per-symbol ordering is preserved.
func (m *BookManager) RegisterEventCallback(cb func(Event)) {
	m.cbMu.Lock()
	m.callbacks = append(m.callbacks, cb)
	m.cbMu.Unlock()
}

func (m *BookManager) SubmitNew(o *Order) error {
	return m.getOrCreateBook(o.Symbol).SubmitNew(o)
}

func (m *BookManager) Cancel(symbol string, orderID int64) error {
	book, ok := m.lookup(symbol)
	if !ok {
		return errUnknownSymbol
	}
	return book.Cancel(orderID)
}

func (m *BookManager) Modify(symbol string, orderID, newQty, newPrice int64) error {
	book, ok := m.lookup(symbol)
	if !ok {
		return errUnknownSymbol
	}
	return book.Modify(orderID, newQty, newPrice)
}

func (m *BookManager) Depth(ctx context.Context, symbol string, maxLevels int) (DepthSnapshot, error) {
	book, ok := m.lookup(symbol)
	if !ok {
		return DepthSnapshot{}, errUnknownSymbol
	}
	return book.Depth(ctx, maxLevels)
}

func (m *BookManager) Stop() {
	m.cancel()
	m.books.Range(func(_, v any) bool {
		v.(*Book).Stop()
		return true
	})
	m.wg.Wait()
}

func (m *BookManager) lookup(symbol string) (*Book, bool) {
	v, ok := m.books.Load(symbol)
	if !ok {
		return nil, false
	}
	return v.(*Book), true
}

func (m *BookManager) tickSize(symbol string) int64 {
	if ts, ok := m.cfg.TickSizeBySymbol[symbol]; ok {
		return ts
	}
	return m.cfg.DefaultTickSize
}

func (m *BookManager) getOrCreateBook(symbol string) *Book {
	if v, ok := m.books.Load(symbol); ok {
		return v.(*Book)
	}

	book := NewBook(BookConfig{
		Engine: Config{
			Symbol:                  symbol,
			TickSize:                m.tickSize(symbol),
			AmendQtyDecreaseInPlace: m.cfg.AmendQtyDecreaseInPlace,
		},
		RequestBuffer: m.cfg.RequestBuffer,
		EventBuffer:   m.cfg.EventBuffer,
	})

	actual, loaded := m.books.LoadOrStore(symbol, book)
	if loaded {
		return actual.(*Book)
	}

	book.Start(m.ctx)
	m.wg.Add(1)
	go m.forward(book)
	return book
}

func (m *BookManager) forward(book *Book) {
	defer m.wg.Done()
	for ev := range book.Events() {
		m.cbMu.Lock()
		cbs := m.callbacks
		m.cbMu.Unlock()
		for _, cb := range cbs {
			cb(ev)
		}
	}
}
