// Package plugin turns compilation results into dapp documents: it keeps the
// contract map of the latest compilation, validates the user's form, saves
// the document and sends the user to the DappBuilder.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Mohsinsiddi/dappos/internal/alert"
	"github.com/Mohsinsiddi/dappos/internal/compiler"
	"github.com/Mohsinsiddi/dappos/internal/config"
	"github.com/Mohsinsiddi/dappos/internal/dapp"
	"github.com/Mohsinsiddi/dappos/internal/identity"
	"github.com/Mohsinsiddi/dappos/internal/store"
	"go.uber.org/zap"
)

// ValidationError is a problem with the user's input. It never has side
// effects: a submission that fails validation writes and opens nothing.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validation errors, in the order they are checked.
var (
	ErrNameRequired    = &ValidationError{"Please enter a name for your dapp"}
	ErrInvalidAddress  = &ValidationError{"Please enter a valid contract address"}
	ErrUnknownContract = &ValidationError{"Selected contract is not in the latest compilation"}
	ErrNoContracts     = &ValidationError{"Please select at least one contract"}
	ErrNameSlash       = &ValidationError{`Dapp name cannot contain "/". Please choose another name.`}
)

// addressPattern accepts a repeated "0x" prefix (0x0x…); see DESIGN.md.
var addressPattern = regexp.MustCompile(`(?i)^(0x)+[0-9a-f]{40}$`)

// ValidAddress reports whether addr passes the deployed-address check.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

// BuilderURL is where the user continues editing the dapp.
func BuilderURL(base, userID, dappID string) string {
	return strings.TrimRight(base, "/") + "/DappBuilder?uniqueId=" + escapeComponent(userID) +
		"&dappId=" + escapeComponent(dappID)
}

// escapeComponent query-escapes s with spaces as %20 rather than "+".
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Form is what the user filled in.
type Form struct {
	Name     string
	Address  string
	Selected []string
}

// Submission describes a submission that passed validation.
type Submission struct {
	UserID   string
	DappID   string
	Path     store.Path
	URL      string
	Document *dapp.Document
	SaveErr  error // set when the best-effort save failed
	OpenErr  error // set when the browser could not be opened
}

// Plugin is the compilation listener and submission handler.
type Plugin struct {
	mu        sync.RWMutex
	contracts compiler.ContractMap

	host         StatusEmitter
	ids          identity.Provider
	store        store.Store
	nav          Navigator
	sched        Scheduler
	alerts       *alert.Presenter
	log          *zap.Logger
	builderURL   string
	resetDelay   time.Duration
	storeTimeout time.Duration
	bestEffort   bool
	newID        func() string
	onRefresh    func()
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithHost sets the host status channel.
func WithHost(h StatusEmitter) Option { return func(p *Plugin) { p.host = h } }

// WithIdentity sets the per-user identifier provider.
func WithIdentity(ids identity.Provider) Option { return func(p *Plugin) { p.ids = ids } }

// WithStore sets the document store.
func WithStore(s store.Store) Option { return func(p *Plugin) { p.store = s } }

// WithNavigator sets how the builder is opened.
func WithNavigator(n Navigator) Option { return func(p *Plugin) { p.nav = n } }

// WithScheduler sets the timer used for the status reset.
func WithScheduler(s Scheduler) Option { return func(p *Plugin) { p.sched = s } }

// WithAlerts sets the alert presenter.
func WithAlerts(a *alert.Presenter) Option { return func(p *Plugin) { p.alerts = a } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(p *Plugin) { p.log = l } }

// WithBuilderURL sets the DappBuilder base URL.
func WithBuilderURL(u string) Option { return func(p *Plugin) { p.builderURL = u } }

// WithResetDelay sets how long "loading" stays before the reset to "none".
func WithResetDelay(d time.Duration) Option { return func(p *Plugin) { p.resetDelay = d } }

// WithBestEffortSave controls whether a failed save still opens the builder.
func WithBestEffortSave(on bool) Option { return func(p *Plugin) { p.bestEffort = on } }

// WithIDGenerator replaces the document identifier generator.
func WithIDGenerator(gen func() string) Option { return func(p *Plugin) { p.newID = gen } }

// OnRefresh registers the callback run after the contract map changes.
func OnRefresh(f func()) Option { return func(p *Plugin) { p.onRefresh = f } }

// FromConfig applies the config-driven options.
func FromConfig(cfg *config.Config) Option {
	return func(p *Plugin) {
		p.builderURL = cfg.BuilderURL
		p.resetDelay = cfg.StatusResetDelay()
		p.bestEffort = cfg.BestEffortSave
	}
}

// New creates a Plugin with an empty contract map.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		contracts:    compiler.ContractMap{},
		host:         StatusFunc(func(Status) {}),
		ids:          identity.NewMemory(""),
		store:        store.NewMemory(),
		nav:          noopNavigator{},
		sched:        realScheduler{},
		log:          zap.NewNop(),
		builderURL:   "https://app.dappos.io",
		resetDelay:   config.DefaultStatusReset,
		storeTimeout: config.StoreTimeout,
		bestEffort:   true,
		newID:        identity.NewID,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.alerts == nil {
		p.alerts = alert.NewPresenter()
	}
	return p
}

// Alerts returns the presenter the plugin reports to.
func (p *Plugin) Alerts() *alert.Presenter { return p.alerts }

// Attach subscribes the plugin to src.
func (p *Plugin) Attach(src compiler.Source) {
	src.OnCompilationFinished(func(ev compiler.Event) {
		if err := p.HandleCompilation(ev); err != nil {
			p.alerts.Show(err)
		}
	})
}

// HandleCompilation replaces the contract map with the flattened result of
// ev. An event without a result is ignored. A malformed result leaves the
// current map untouched and is returned as an error.
func (p *Plugin) HandleCompilation(ev compiler.Event) error {
	if ev.Result == nil {
		p.log.Debug("compilation without result ignored", zap.String("file", ev.File))
		return nil
	}

	m, err := compiler.Flatten(ev.Result)
	if err != nil {
		p.log.Error("rejecting compilation result", zap.String("file", ev.File), zap.Error(err))
		return fmt.Errorf("compilation %s: %w", ev.File, err)
	}

	p.mu.Lock()
	p.contracts = m
	p.mu.Unlock()

	p.log.Info("contracts updated",
		zap.String("file", ev.File),
		zap.String("version", ev.Version),
		zap.Int("contracts", len(m)))

	p.host.EmitStatus(StatusCompiled)
	if p.onRefresh != nil {
		p.onRefresh()
	}
	return nil
}

// Contracts returns a copy of the current contract map.
func (p *Plugin) Contracts() compiler.ContractMap {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(compiler.ContractMap, len(p.contracts))
	for k, v := range p.contracts {
		out[k] = v
	}
	return out
}

// Names returns the current contract names, sorted.
func (p *Plugin) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.contracts.Names()
}

// Submit validates f, saves the dapp document and opens the builder. Errors
// that stop the submission are also shown as warning alerts.
func (p *Plugin) Submit(ctx context.Context, f Form) (*Submission, error) {
	sub, err := p.submit(ctx, f)
	if err != nil {
		p.alerts.Show(err)
		return nil, err
	}
	p.alerts.Show(nil)
	return sub, nil
}

func (p *Plugin) submit(ctx context.Context, f Form) (*Submission, error) {
	selected, err := p.validate(f)
	if err != nil {
		return nil, err
	}

	p.host.EmitStatus(StatusLoading)
	p.sched.AfterFunc(p.resetDelay, func() { p.host.EmitStatus(StatusNone) })

	userID, err := p.ids.GetOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading user identifier: %w", err)
	}

	dappID := p.newID()
	contracts := make([]dapp.Contract, 0, len(selected))
	for _, s := range selected {
		contracts = append(contracts, dapp.Contract{Address: f.Address, ABI: s.ABI, Name: s.name})
	}
	doc := dapp.NewDocument(dappID, f.Name, dapp.NewFrontendStructure(p.newID()), contracts)

	sub := &Submission{
		UserID:   userID,
		DappID:   dappID,
		Path:     store.DappPath(userID, dappID),
		URL:      BuilderURL(p.builderURL, userID, dappID),
		Document: doc,
	}

	saveCtx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	sub.SaveErr = p.store.Set(saveCtx, sub.Path, doc)
	cancel()
	if sub.SaveErr != nil {
		p.log.Error("saving dapp failed",
			zap.String("store", p.store.Name()),
			zap.String("path", sub.Path.String()),
			zap.Error(sub.SaveErr))
		if !p.bestEffort {
			return nil, fmt.Errorf("saving dapp: %w", sub.SaveErr)
		}
	} else {
		p.log.Info("dapp saved", zap.String("store", p.store.Name()), zap.String("path", sub.Path.String()))
	}

	if sub.OpenErr = p.nav.Open(sub.URL); sub.OpenErr != nil {
		p.log.Warn("opening builder failed", zap.String("url", sub.URL), zap.Error(sub.OpenErr))
	}
	return sub, nil
}

type selection struct {
	name string
	compiler.Interface
}

// validate runs the form checks in order and returns the selected
// contracts. Duplicate selections are collapsed.
func (p *Plugin) validate(f Form) ([]selection, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, ErrNameRequired
	}
	if !ValidAddress(f.Address) {
		return nil, ErrInvalidAddress
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	seen := make(map[string]bool, len(f.Selected))
	var (
		out      []selection
		combined int
	)
	for _, name := range f.Selected {
		if seen[name] {
			continue
		}
		seen[name] = true
		iface, ok := p.contracts[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownContract, name)
		}
		combined += len(iface.ABI)
		out = append(out, selection{name: name, Interface: iface})
	}
	if combined == 0 {
		return nil, ErrNoContracts
	}

	if strings.Contains(f.Name, "/") {
		return nil, ErrNameSlash
	}
	return out, nil
}

// IsValidation reports whether err came from form validation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type noopNavigator struct{}

func (noopNavigator) Open(string) error { return nil }
