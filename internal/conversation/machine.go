package conversation

import (
	"errors"
	"fmt"
	"time"

	"stock-assistant/internal/domain"

	"github.com/charmbracelet/log"
)

const (
	WelcomeText     = "Welcome to the LSEG Stock Information Assistant! 📈"
	ExchangesPrompt = "Please select a stock exchange:"

	LabelGetStarted      = "Get Started"
	LabelBackToExchanges = "↩️ Back to Exchanges"
	LabelBackToStocks    = "↩️ Back to Stocks"
	LabelMainMenu        = "🏠 Main Menu"
)

// Catalog is the read-only dataset the machine navigates.
type Catalog interface {
	Exchanges() []domain.Exchange
	Exchange(code string) (domain.Exchange, bool)
	Stock(exchangeCode, stockCode string) (domain.Stock, bool)
	Validate() error
}

// Ticket identifies one invocation. It is the generation counter value at
// the time the action was armed.
type Ticket uint64

// Step reports what Fire did with an armed action.
type Step struct {
	Ticket Ticket
	Action domain.Action
	// Pending is true when the action entered the typing delay; Complete
	// must be called with the same ticket to finish it.
	Pending bool
	// Err holds a failure that was already recovered through the error path.
	Err error
}

type invocation struct {
	ticket Ticket
	action domain.Action
}

// Machine is the conversation state machine. It is not safe for concurrent
// use; callers serialise access (the bubbletea loop or a Controller).
//
// An action moves through three calls: Invoke arms it, Fire runs it once the
// debounce window passes, and Complete commits the reply after the typing
// delay. Only one action is armed at a time and a newer Invoke replaces it.
type Machine struct {
	store   *Store
	catalog Catalog
	logger  *log.Logger
	// catalogErr is the validation failure found at construction; the
	// exchange list stays closed while it is set.
	catalogErr error

	generation uint64
	armed      *invocation
	inflight   *invocation
}

// MachineOption configures a Machine.
type MachineOption func(*machineOptions)

type machineOptions struct {
	logger *log.Logger
	now    func() time.Time
}

// WithLogger sets the logger used for navigation failures.
func WithLogger(logger *log.Logger) MachineOption {
	return func(o *machineOptions) { o.logger = logger }
}

// WithClock sets the clock used to timestamp messages.
func WithClock(now func() time.Time) MachineOption {
	return func(o *machineOptions) { o.now = now }
}

// NewMachine seeds the welcome message and validates the catalog. An invalid
// catalog is reported through the error path instead of failing.
func NewMachine(catalog Catalog, opts ...MachineOption) *Machine {
	o := machineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}

	if catalog == nil {
		catalog = emptyCatalog{}
	}

	m := &Machine{
		store:   NewStore(o.now),
		catalog: catalog,
		logger:  o.logger.With("component", "conversation"),
	}

	id := m.store.Append(domain.Message{
		Origin:  domain.OriginAssistant,
		Text:    WelcomeText,
		Options: []domain.Option{{Label: LabelGetStarted, Action: domain.NavigateToExchanges()}},
	})
	m.store.SetActive(id)

	if err := m.validateCatalog(); err != nil {
		m.catalogErr = err
		m.fail(&DataLoadError{Err: err}, DataLoadText)
	}
	return m
}

func (m *Machine) validateCatalog() error {
	return m.catalog.Validate()
}

// Pending reports whether an action is inside its typing delay.
func (m *Machine) Pending() bool { return m.inflight != nil }

// Armed reports whether an invocation is waiting for its debounce window.
func (m *Machine) Armed() bool { return m.armed != nil }

// Invoke arms an action and returns its ticket. Any previously armed action
// is cancelled. While an action is pending the call is dropped with ErrBusy.
func (m *Machine) Invoke(a domain.Action) (Ticket, error) {
	if m.inflight != nil {
		m.logger.Debug("dropping action while busy", "action", a)
		return 0, ErrBusy
	}
	switch a.Kind {
	case domain.ActionShowExchanges, domain.ActionSelectExchange, domain.ActionShowStockPrice:
	default:
		return 0, fmt.Errorf("%w: unsupported action %q", ErrUnknownOption, a.Kind)
	}

	m.generation++
	if m.armed != nil {
		m.logger.Debug("cancelling armed action", "action", m.armed.action, "by", a)
	}
	m.armed = &invocation{ticket: Ticket(m.generation), action: a}
	return m.armed.ticket, nil
}

// Select resolves option idx of message id and invokes its action.
func (m *Machine) Select(id domain.MessageID, idx int) (Ticket, error) {
	msg, ok := m.store.Get(id)
	if !ok || idx < 0 || idx >= len(msg.Options) {
		return 0, ErrUnknownOption
	}
	if m.inflight != nil {
		return 0, ErrBusy
	}
	if !m.clickable(id) {
		return 0, ErrOptionDisabled
	}
	return m.Invoke(msg.Options[idx].Action)
}

// Fire runs the armed action identified by t. Validation failures go
// through the error path right away and are returned in Step.Err; on success
// the user echo is appended and the machine becomes pending.
func (m *Machine) Fire(t Ticket) (Step, error) {
	if m.armed == nil || m.armed.ticket != t {
		return Step{}, ErrSuperseded
	}
	if m.inflight != nil {
		return Step{}, ErrBusy
	}

	inv := *m.armed
	m.armed = nil
	step := Step{Ticket: t, Action: inv.action}

	switch inv.action.Kind {
	case domain.ActionSelectExchange:
		ex, ok := m.catalog.Exchange(inv.action.ExchangeCode)
		if !ok {
			step.Err = &SelectionError{ExchangeCode: inv.action.ExchangeCode}
			m.fail(step.Err, SelectionText)
			return step, nil
		}
		m.appendUser("Selected: " + ex.Name)

	case domain.ActionShowStockPrice:
		stock, err := m.pricedStock(inv.action)
		if err != nil {
			step.Err = err
			m.fail(err, DataUnavailableText)
			return step, nil
		}
		m.appendUser("Selected: " + stock.Name)
	}

	m.inflight = &inv
	step.Pending = true
	return step, nil
}

// Complete finishes the pending action identified by t. Pending is always
// released, and the reply is only committed when no newer invocation has
// been armed since t.
func (m *Machine) Complete(t Ticket) error {
	if m.inflight == nil || m.inflight.ticket != t {
		return ErrSuperseded
	}
	inv := *m.inflight
	defer func() { m.inflight = nil }()

	if Ticket(m.generation) != t {
		m.logger.Debug("discarding superseded result", "action", inv.action)
		return ErrSuperseded
	}

	m.store.SetActive(0)
	reply, err := m.reply(inv.action)
	if err != nil {
		m.fail(err, recoveryText(err))
		return err
	}
	m.store.SetActive(m.store.Append(reply))
	return nil
}

// ReportError appends an assistant message offering the main menu and
// makes it active.
func (m *Machine) ReportError(text string) domain.MessageID {
	id := m.store.Append(domain.Message{
		Origin:  domain.OriginAssistant,
		Text:    text,
		Options: []domain.Option{{Label: LabelMainMenu, Action: domain.NavigateToExchanges()}},
	})
	m.store.SetActive(id)
	return id
}

// Snapshot returns a copy of the conversation state.
func (m *Machine) Snapshot() Snapshot {
	active, _ := m.store.Active()
	return Snapshot{
		Messages:   m.store.Messages(),
		ActiveID:   active,
		Pending:    m.inflight != nil,
		Armed:      m.armed != nil,
		Generation: m.generation,
	}
}

func (m *Machine) clickable(id domain.MessageID) bool {
	if m.inflight != nil {
		return false
	}
	active, ok := m.store.Active()
	return !ok || active == id
}

func (m *Machine) fail(err error, text string) {
	m.logger.Error("navigation failed", "err", err)
	m.ReportError(text)
}

func (m *Machine) appendUser(text string) {
	m.store.Append(domain.Message{Origin: domain.OriginUser, Text: text})
}

func (m *Machine) pricedStock(a domain.Action) (domain.Stock, error) {
	stock, ok := m.catalog.Stock(a.ExchangeCode, a.StockCode)
	if !ok || !stock.HasPrice() {
		return domain.Stock{}, &DataUnavailableError{ExchangeCode: a.ExchangeCode, StockCode: a.StockCode}
	}
	return stock, nil
}

func (m *Machine) reply(a domain.Action) (domain.Message, error) {
	switch a.Kind {
	case domain.ActionShowExchanges:
		if m.catalogErr != nil {
			return domain.Message{}, &DataLoadError{Err: m.catalogErr}
		}
		exchanges := m.catalog.Exchanges()
		if len(exchanges) == 0 {
			return domain.Message{}, &DataLoadError{Err: errNoDataset}
		}
		options := make([]domain.Option, 0, len(exchanges))
		for _, ex := range exchanges {
			options = append(options, domain.Option{Label: ex.Name, Action: domain.SelectExchange(ex.Code)})
		}
		return domain.Message{Origin: domain.OriginAssistant, Text: ExchangesPrompt, Options: options}, nil

	case domain.ActionSelectExchange:
		ex, ok := m.catalog.Exchange(a.ExchangeCode)
		if !ok {
			return domain.Message{}, &SelectionError{ExchangeCode: a.ExchangeCode}
		}
		options := make([]domain.Option, 0, len(ex.Stocks)+1)
		for _, s := range ex.Stocks {
			options = append(options, domain.Option{
				Label:  StockLabel(s),
				Action: domain.ShowStockPrice(ex.Code, s.Code),
			})
		}
		options = append(options, domain.Option{Label: LabelBackToExchanges, Action: domain.NavigateToExchanges()})
		return domain.Message{
			Origin:  domain.OriginAssistant,
			Text:    fmt.Sprintf("Here are the top stocks from %s:", ex.Name),
			Options: options,
		}, nil

	case domain.ActionShowStockPrice:
		stock, err := m.pricedStock(a)
		if err != nil {
			return domain.Message{}, err
		}
		return domain.Message{
			Origin: domain.OriginAssistant,
			Text:   fmt.Sprintf("%s \nCurrent Price: %s", StockLabel(stock), FormatPrice(stock.Price.Decimal)),
			Options: []domain.Option{
				{Label: LabelBackToStocks, Action: domain.SelectExchange(a.ExchangeCode)},
				{Label: LabelMainMenu, Action: domain.NavigateToExchanges()},
			},
		}, nil
	}
	return domain.Message{}, fmt.Errorf("%w: unsupported action %q", ErrUnknownOption, a.Kind)
}

var errNoDataset = errors.New("no exchanges available")

type emptyCatalog struct{}

func (emptyCatalog) Exchanges() []domain.Exchange { return nil }
func (emptyCatalog) Exchange(string) (domain.Exchange, bool) { return domain.Exchange{}, false }
func (emptyCatalog) Stock(string, string) (domain.Stock, bool) { return domain.Stock{}, false }
func (emptyCatalog) Validate() error { return errNoDataset }

func recoveryText(err error) string {
	switch err.(type) {
	case *SelectionError:
		return SelectionText
	case *DataUnavailableError:
		return DataUnavailableText
	default:
		return DataLoadText
	}
}
