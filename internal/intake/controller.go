package intake

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/atomnext-intake/internal/observability/metrics"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

// Navigator performs the final page change after a handoff.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// Delays are the fixed pauses in the funnel.
type Delays struct {
	// Advance is the pause between a selection and the next step.
	Advance time.Duration
	// Navigate lets the close animation play before leaving the page.
	Navigate time.Duration
	// Focus is how long after rendering focus moves into the dialog.
	Focus time.Duration
}

// DefaultDelays match the site's animation timings.
var DefaultDelays = Delays{
	Advance:  250 * time.Millisecond,
	Navigate: 200 * time.Millisecond,
	Focus:    50 * time.Millisecond,
}

// withDefaults fills each unset (zero or negative) delay from DefaultDelays.
func (d Delays) withDefaults() Delays {
	if d.Advance <= 0 {
		d.Advance = DefaultDelays.Advance
	}
	if d.Navigate <= 0 {
		d.Navigate = DefaultDelays.Navigate
	}
	if d.Focus <= 0 {
		d.Focus = DefaultDelays.Focus
	}
	return d
}

// Option customizes a Controller.
type Option func(*Controller)

func WithClock(c Clock) Option { return func(ctrl *Controller) { ctrl.clock = c } }

// WithDelays sets the pauses; unset fields keep their defaults.
func WithDelays(d Delays) Option { return func(ctrl *Controller) { ctrl.delays = d.withDefaults() } }

func WithEncoder(e *Encoder) Option { return func(ctrl *Controller) { ctrl.encoder = e } }

func WithNavigator(n Navigator) Option { return func(ctrl *Controller) { ctrl.navigator = n } }

func WithLogger(l *logging.Logger) Option { return func(ctrl *Controller) { ctrl.logger = l } }

func WithMetrics(m *metrics.IntakeMetrics) Option { return func(ctrl *Controller) { ctrl.metrics = m } }

// Controller runs the three-step wizard for one visitor. It owns the
// dialog's rendered state; callers interact only through its methods.
//
// All state is guarded by mu. Timer callbacks carry the generation they
// were armed with and do nothing once superseded, so at most one advance
// is ever applied per arm.
type Controller struct {
	store     *ContextStore
	surface   Surface
	encoder   *Encoder
	navigator Navigator
	clock     Clock
	delays    Delays
	logger    *logging.Logger
	metrics   *metrics.IntakeMetrics

	mu         sync.Mutex
	uc         UserContext
	step       int
	open       bool
	opener     string
	pending    Timer
	generation uint64
	focusTimer Timer
	openSeq    uint64
}

// NewController mounts the dialog once and loads the persisted context.
func NewController(ctx context.Context, store *ContextStore, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		surface: surface,
		clock:   SystemClock(),
		delays:  DefaultDelays,
		step:    1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	if c.encoder == nil {
		c.encoder = NewEncoder(DefaultDestinations)
	}
	if c.navigator == nil {
		c.navigator = NavigatorFunc(func(target string) {
			c.logger.Debug("intake: navigation has no target surface", "target", target)
		})
	}

	c.surface.Mount()
	if c.store != nil {
		c.uc = c.store.Load(ctx)
	}
	return c
}

// Open shows the wizard at step 1, pre-filled from the current context.
// opener is the id of the element that triggered it; focus returns there
// on close.
func (c *Controller) Open(opener string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelPendingLocked()
	c.stopFocusLocked()

	c.step = 1
	c.open = true
	c.opener = opener
	c.openSeq++

	c.surface.SetVisible(true)
	c.surface.SetScrollLocked(true)
	c.surface.Focus("")
	c.renderLocked(1)

	seq := c.openSeq
	c.focusTimer = c.clock.AfterFunc(c.delays.Focus, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.open && c.openSeq == seq {
			c.surface.Focus(FocusDialog)
		}
	})

	c.metrics.ObserveOpen()
	c.logger.Debug("intake: wizard opened", "opener", opener)
}

// Close hides the wizard, cancels any pending advance, and persists the
// context. Closing a closed wizard is a no-op.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked(ctx)
}

func (c *Controller) closeLocked(ctx context.Context) {
	if !c.open {
		return
	}
	c.cancelPendingLocked()
	c.stopFocusLocked()
	c.saveLocked(ctx)

	c.open = false
	c.surface.SetVisible(false)
	c.surface.SetScrollLocked(false)
	c.surface.Focus(c.opener)

	c.metrics.ObserveClose(c.step)
}

// SelectIntent records the step-1 choice and arms the advance to step 2.
// A second selection before the timer fires replaces the first.
func (c *Controller) SelectIntent(ctx context.Context, raw string) error {
	intent := ParseIntent(raw)
	if !intent.Valid() {
		return ErrUnknownOption
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectStepLocked(1); err != nil {
		return err
	}

	c.uc.Intent = intent
	c.saveLocked(ctx)
	c.renderLocked(1)
	c.armAdvanceLocked(2)
	return nil
}

// SelectCompanyType records the step-2 choice and arms the advance to step 3.
func (c *Controller) SelectCompanyType(ctx context.Context, raw string) error {
	companyType := ParseCompanyType(raw)
	if !companyType.Valid() {
		return ErrUnknownOption
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectStepLocked(2); err != nil {
		return err
	}

	c.uc.CompanyType = companyType
	c.saveLocked(ctx)
	c.renderLocked(2)
	c.armAdvanceLocked(3)
	return nil
}

// UpdateDescription stores the free text on every input event so nothing
// is lost if the dialog closes abruptly. Text that arrives just after the
// wizard was dismissed from step 1 is still kept.
func (c *Controller) UpdateDescription(ctx context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		if c.openSeq == 0 || c.step != 1 {
			return ErrClosed
		}
	} else if c.step != 1 {
		return ErrStepMismatch
	}

	c.uc.Description = strings.TrimSpace(text)
	c.saveLocked(ctx)
	return nil
}

// ChooseAction commits to the step-3 action routing to raw ("call" or
// "request"). It closes the wizard and navigates after the close delay;
// the navigation is not cancelled by anything that happens afterwards.
func (c *Controller) ChooseAction(ctx context.Context, raw string) (*url.URL, error) {
	dest, ok := ParseDestination(raw)
	if !ok {
		return nil, ErrUnknownAction
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.expectStepLocked(3); err != nil {
		return nil, err
	}

	action, ok := Resolve(c.uc.Intent, c.uc.CompanyType).ActionFor(dest)
	if !ok {
		return nil, ErrUnknownAction
	}

	target := c.encoder.Encode(c.uc, action)
	c.closeLocked(ctx)

	navigator := c.navigator
	location := target.String()
	c.clock.AfterFunc(c.delays.Navigate, func() {
		navigator.Navigate(location)
	})

	c.metrics.ObserveHandoff(string(dest), string(c.uc.Intent))
	c.logger.Info("intake: handoff committed",
		"destination", dest,
		"intent", c.uc.Intent,
		"company_type", c.uc.CompanyType,
	)
	return target, nil
}

// Step is the step currently showing.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// IsOpen reports whether the wizard is showing.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Context returns a copy of the live user context.
func (c *Controller) Context() UserContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uc
}

// Stop cancels outstanding timers without touching the dialog. Committed
// navigations still run.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.stopFocusLocked()
}

func (c *Controller) expectStepLocked(step int) error {
	if !c.open {
		return ErrClosed
	}
	if c.step != step {
		return ErrStepMismatch
	}
	return nil
}

func (c *Controller) armAdvanceLocked(next int) {
	c.cancelPendingLocked()
	gen := c.generation
	c.pending = c.clock.AfterFunc(c.delays.Advance, func() {
		c.advance(gen, next)
	})
}

func (c *Controller) advance(gen uint64, next int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || !c.open || c.step != next-1 {
		return
	}
	c.pending = nil
	from := c.step
	c.renderLocked(next)
	c.metrics.ObserveTransition(from, next)
}

// cancelPendingLocked stops the armed advance and invalidates its callback
// in case it is already running.
func (c *Controller) cancelPendingLocked() {
	c.generation++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) stopFocusLocked() {
	if c.focusTimer != nil {
		c.focusTimer.Stop()
		c.focusTimer = nil
	}
}

func (c *Controller) saveLocked(ctx context.Context) {
	c.uc.CapturedAt = c.clock.Now().UTC()
	if c.store != nil {
		c.store.Save(ctx, c.uc)
	}
}

func (c *Controller) renderLocked(step int) {
	c.step = step
	body, err := RenderStep(step, c.uc)
	if err != nil {
		c.logger.Error("intake: render failed", "step", step, "error", err)
	}
	c.surface.Render(Frame{Step: step, Body: body})
}
