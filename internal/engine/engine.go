package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"market-quick-price/internal/items"
	"market-quick-price/internal/logger"
	"market-quick-price/internal/world"
)

// ErrorKind classifies the user-facing errors BeginLookup can return.
type ErrorKind int

const (
	ErrEmptyQuery ErrorKind = iota + 1
	ErrCooldown
	ErrItemNotFound
)

// LookupError is a synchronous rejection of a lookup request. Error() is the
// exact message shown to the user.
type LookupError struct {
	Kind             ErrorKind
	Query            string
	RemainingSeconds int // set for ErrCooldown
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case ErrEmptyQuery:
		return "Please enter an item name."
	case ErrCooldown:
		return fmt.Sprintf("Please wait %d more second(s) before querying again.", e.RemainingSeconds)
	case ErrItemNotFound:
		return fmt.Sprintf("Couldn't find an item named '%s'.", e.Query)
	}
	return "lookup rejected"
}

// ItemResolver maps queries and ids to catalog items.
type ItemResolver interface {
	Find(query string) (items.Item, bool)
	ByID(id uint32) (items.Item, bool)
}

// LookupLog persists completed lookups. Failures are logged and otherwise ignored.
type LookupLog interface {
	RecordLookup(r MarketResult, scope LookupScope, at time.Time) error
}

// Outcome is the terminal update of one asynchronous lookup.
type Outcome struct {
	Item    string        `json:"item"`
	Scope   string        `json:"scope"`
	Result  *MarketResult `json:"result,omitempty"`
	Err     error         `json:"-"`
	Message string        `json:"message"`
}

// Notifier receives lookup outcomes. It is called from the lookup goroutine.
type Notifier interface {
	Notify(Outcome)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Outcome)

// Notify calls f(o).
func (f NotifierFunc) Notify(o Outcome) { f(o) }

// Options configures an Engine. Items and Source are required.
type Options struct {
	Catalog         *world.Catalog
	Items           ItemResolver
	Source          PriceSource
	Cooldown        time.Duration
	HistoryCapacity int
	Ambient         Ambient
	Notifier        Notifier
	Log             LookupLog
	Now             func() time.Time
}

// Engine runs market lookups: validation and throttling happen synchronously,
// the network fan-out runs in the background and publishes into the result slot.
type Engine struct {
	items    ItemResolver
	resolver *Resolver
	mux      *Multiplexer
	cooldown *Cooldown
	history  *History
	slot     Slot
	notifier Notifier
	log      LookupLog
	now      func() time.Time

	ambientMu sync.RWMutex
	ambient   Ambient

	wg sync.WaitGroup
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Catalog == nil {
		opts.Catalog = world.Default
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		items:    opts.Items,
		resolver: NewResolver(opts.Catalog),
		mux:      &Multiplexer{Source: opts.Source, Catalog: opts.Catalog, Now: opts.Now},
		cooldown: NewCooldown(opts.Cooldown),
		history:  NewHistory(opts.HistoryCapacity),
		notifier: opts.Notifier,
		log:      opts.Log,
		now:      opts.Now,
		ambient:  opts.Ambient,
	}
}

// SetAmbient replaces the current/preferred world used by later lookups.
func (e *Engine) SetAmbient(a Ambient) {
	e.ambientMu.Lock()
	e.ambient = a
	e.ambientMu.Unlock()
}

// Ambient returns the current/preferred world settings.
func (e *Engine) Ambient() Ambient {
	e.ambientMu.RLock()
	defer e.ambientMu.RUnlock()
	return e.ambient
}

// SetCooldown changes the minimum gap between lookup starts.
func (e *Engine) SetCooldown(d time.Duration) { e.cooldown.SetPeriod(d) }

// SetHistoryCapacity changes the history bound.
func (e *Engine) SetHistoryCapacity(n int) { e.history.SetCapacity(n) }

// Resolve exposes scope resolution against the engine's current ambient state.
func (e *Engine) Resolve(scope LookupScope) []QueryTarget {
	return e.resolver.Resolve(scope, e.Ambient())
}

// BeginLookup validates the query, resolves the item, applies the cooldown
// and starts the lookup in the background. A nil return means the lookup
// was started; rejections are *LookupError.
func (e *Engine) BeginLookup(query string, scope LookupScope) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return &LookupError{Kind: ErrEmptyQuery}
	}
	item, ok := e.items.Find(q)
	if !ok {
		return &LookupError{Kind: ErrItemNotFound, Query: q}
	}
	return e.start(item, scope)
}

// BeginLookupByID starts a lookup for a known item id.
func (e *Engine) BeginLookupByID(id uint32, scope LookupScope) error {
	item, ok := e.items.ByID(id)
	if !ok || strings.TrimSpace(item.Name) == "" {
		return &LookupError{Kind: ErrItemNotFound, Query: fmt.Sprintf("#%d", id)}
	}
	return e.start(item, scope)
}

func (e *Engine) start(item items.Item, scope LookupScope) error {
	if ok, remaining := e.cooldown.TryBegin(e.now()); !ok {
		return &LookupError{Kind: ErrCooldown, Query: item.Name, RemainingSeconds: remaining}
	}
	amb := e.Ambient()
	e.wg.Add(1)
	go e.run(item, scope, amb)
	return nil
}

// Wait blocks until every started lookup has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) run(item items.Item, scope LookupScope, amb Ambient) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Lookup", fmt.Sprintf("lookup for %s failed: %v", item.Name, r))
			err := fmt.Errorf("%v", r)
			e.notifyRecovered(Outcome{Item: item.Name, Scope: scope.Describe(), Err: err, Message: "Error: " + err.Error()})
		}
	}()

	targets := e.resolver.Resolve(scope, amb)
	logger.Debug("Lookup", fmt.Sprintf("%s across %s", item.Name, targetSummary(targets)))

	result, err := e.mux.QueryCheapest(context.Background(), item, targets)
	if err != nil {
		var noData *NoDataError
		if !errors.As(err, &noData) {
			logger.Error("Lookup", err.Error())
		}
		e.notify(Outcome{Item: item.Name, Scope: scope.Describe(), Err: err, Message: err.Error()})
		return
	}

	at := e.now()
	e.slot.Publish(result, at)
	e.history.Record(result)
	if e.log != nil {
		if err := e.log.RecordLookup(result, scope, at); err != nil {
			logger.Warn("Lookup", fmt.Sprintf("record lookup: %v", err))
		}
	}

	r := result.Clone()
	e.notify(Outcome{
		Item:    item.Name,
		Scope:   scope.Describe(),
		Result:  &r,
		Message: fmt.Sprintf("%s @ %s: %s gil (latest)", result.ItemName, result.World, humanize.Comma(result.Lowest)),
	})
}

func (e *Engine) notify(o Outcome) {
	if e.notifier != nil {
		e.notifier.Notify(o)
	}
}

// notifyRecovered is notify for the panic path: the notifier may be what
// panicked, so a second panic is logged and dropped.
func (e *Engine) notifyRecovered(o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Lookup", fmt.Sprintf("notifier failed: %v", r))
		}
	}()
	e.notify(o)
}

// Current returns the latest published result.
func (e *Engine) Current() (Snapshot, bool) {
	return e.slot.Load()
}

// History returns past results, most recent first.
func (e *Engine) History() []MarketResult {
	return e.history.List()
}

// HistoryCapacity returns the effective history bound.
func (e *Engine) HistoryCapacity() int {
	return e.history.Capacity()
}

// SelectHistory republishes history entry i as the current result.
func (e *Engine) SelectHistory(i int) (MarketResult, bool) {
	r, ok := e.history.At(i)
	if !ok {
		return MarketResult{}, false
	}
	e.slot.Publish(r, e.now())
	return r, true
}
