package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cointax/internal/csvtrade"
	"cointax/internal/model"
	"cointax/internal/tax"
)

var (
	// ErrNotFound is returned when no trade carries the given id.
	ErrNotFound = errors.New("trade not found")
	// ErrLastRow is returned when a delete would empty the list. The ledger
	// always keeps at least one editable row.
	ErrLastRow = errors.New("cannot delete the last remaining trade")
)

// TradeUpdate carries field edits for a single trade. Fields are raw strings
// as typed; numeric values that do not parse are coerced to 0, never
// rejected.
type TradeUpdate struct {
	Date   *string `json:"date"`
	Type   *string `json:"type"`
	Amount *string `json:"amount"`
	Price  *string `json:"price"`
}

// Book is the in-memory trade ledger. All mutation is serialized behind a
// mutex and applies immediately; the aggregate totals are recomputed by a
// coalescing background pass so rapid edits never pay for a full reduction
// per keystroke. Published totals always converge to the committed list.
type Book struct {
	logger   *slog.Logger
	debounce time.Duration

	mu     sync.RWMutex
	trades []model.Trade
	totals model.Totals

	dirty chan struct{}

	subMu sync.Mutex
	subs  map[chan model.Totals]struct{}
}

// New creates a Book seeded with one blank row. debounce bounds how long
// published totals may lag behind edits.
func New(logger *slog.Logger, debounce time.Duration) *Book {
	b := &Book{
		logger:   logger,
		debounce: debounce,
		trades:   []model.Trade{newBlank()},
		dirty:    make(chan struct{}, 1),
		subs:     make(map[chan model.Totals]struct{}),
	}
	b.totals = tax.Summarize(b.trades)
	return b
}

// Run drives the recompute pass until the context is cancelled. Each dirty
// signal starts a debounce window; further signals inside the window are
// coalesced into the same recomputation, so latency stays bounded by the
// debounce interval.
func (b *Book) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.dirty:
		}

		timer := time.NewTimer(b.debounce)
	coalesce:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-b.dirty:
			case <-timer.C:
				break coalesce
			}
		}
		b.recompute()
	}
}

func (b *Book) recompute() {
	totals := tax.Summarize(b.List())

	b.mu.Lock()
	b.totals = totals
	b.mu.Unlock()

	b.logger.Debug("totals recomputed",
		"totalBuy", totals.TotalBuy,
		"totalSell", totals.TotalSell,
		"profit", totals.Profit,
	)
	b.publish(totals)
}

// List returns a snapshot copy of the current trade list.
func (b *Book) List() []model.Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

// Totals returns the most recently published aggregate figures. Under rapid
// editing these may lag the list by up to one debounce interval.
func (b *Book) Totals() model.Totals {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.totals
}

// AddBlank appends a fresh editable row and returns it.
func (b *Book) AddBlank() model.Trade {
	t := newBlank()

	b.mu.Lock()
	b.trades = append(b.trades, t)
	b.mu.Unlock()

	b.markDirty()
	return t
}

// Import appends normalized trades in order, assigning each an id, and
// returns the count added.
func (b *Book) Import(trades []model.Trade) int {
	if len(trades) == 0 {
		return 0
	}
	for i := range trades {
		trades[i].ID = uuid.NewString()
	}

	b.mu.Lock()
	b.trades = append(b.trades, trades...)
	b.mu.Unlock()

	b.markDirty()
	return len(trades)
}

// Update applies field edits to the trade with the given id.
func (b *Book) Update(id string, upd TradeUpdate) (model.Trade, error) {
	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return model.Trade{}, ErrNotFound
	}

	t := &b.trades[idx]
	if upd.Date != nil {
		t.Date = strings.TrimSpace(*upd.Date)
		if t.Date == "" {
			t.Date = time.Now().Format("2006-01-02")
		}
	}
	if upd.Type != nil {
		if strings.ToLower(strings.TrimSpace(*upd.Type)) == string(model.Buy) {
			t.Type = model.Buy
		} else {
			t.Type = model.Sell
		}
	}
	if upd.Amount != nil {
		t.Amount = csvtrade.CoerceNumber(*upd.Amount)
	}
	if upd.Price != nil {
		t.Price = csvtrade.CoerceNumber(*upd.Price)
	}
	updated := *t
	b.mu.Unlock()

	b.markDirty()
	return updated, nil
}

// Delete removes the trade with the given id. Deleting the only remaining
// row is refused so the ledger never goes empty.
func (b *Book) Delete(id string) error {
	b.mu.Lock()
	if len(b.trades) <= 1 {
		b.mu.Unlock()
		return ErrLastRow
	}
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return ErrNotFound
	}
	b.trades = append(b.trades[:idx], b.trades[idx+1:]...)
	b.mu.Unlock()

	b.markDirty()
	return nil
}

// Subscribe registers a listener for published totals. The returned cancel
// func must be called when the listener goes away. A slow listener only ever
// sees the latest value; intermediate publications are overwritten.
func (b *Book) Subscribe() (<-chan model.Totals, func()) {
	ch := make(chan model.Totals, 1)

	b.subMu.Lock()
	b.subs[ch] = struct{}{}
	b.subMu.Unlock()

	cancel := func() {
		b.subMu.Lock()
		delete(b.subs, ch)
		b.subMu.Unlock()
	}
	return ch, cancel
}

func (b *Book) publish(t model.Totals) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- t:
		default:
			// Replace the stale value instead of blocking.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- t:
			default:
			}
		}
	}
}

func (b *Book) markDirty() {
	select {
	case b.dirty <- struct{}{}:
	default:
	}
}

// indexOf must be called with b.mu held.
func (b *Book) indexOf(id string) int {
	for i := range b.trades {
		if b.trades[i].ID == id {
			return i
		}
	}
	return -1
}

func newBlank() model.Trade {
	return model.Trade{
		ID:   uuid.NewString(),
		Date: time.Now().Format("2006-01-02"),
		Type: model.Buy,
	}
}
