package intake

import (
	"html/template"
	"io"
	"sync"
)

// FocusDialog is the focus target for the dialog itself.
const FocusDialog = "intake-dialog"

// Frame is one rendered step.
type Frame struct {
	Step int
	Body template.HTML
}

// Surface is where the controller puts the wizard on screen.
type Surface interface {
	// Mount creates the dialog skeleton. Called once per controller.
	Mount()
	SetVisible(visible bool)
	SetScrollLocked(locked bool)
	Render(frame Frame)
	// Focus moves focus to the element with the given id; empty means none.
	Focus(target string)
}

// DialogState is a snapshot of a Dialog.
type DialogState struct {
	Mounts       int
	Renders      int
	Visible      bool
	ScrollLocked bool
	Focus        string
	Frame        Frame
}

// Dialog is the server-side rendition of the wizard's modal for one
// visitor. It records what the browser should show and writes it as HTML.
type Dialog struct {
	endpoint string

	mu    sync.RWMutex
	state DialogState
}

// NewDialog creates an unmounted dialog whose controls post to endpoint.
func NewDialog(endpoint string) *Dialog {
	return &Dialog{endpoint: endpoint}
}

func (d *Dialog) Mount() {
	d.mu.Lock()
	d.state.Mounts++
	d.mu.Unlock()
}

func (d *Dialog) SetVisible(visible bool) {
	d.mu.Lock()
	d.state.Visible = visible
	d.mu.Unlock()
}

func (d *Dialog) SetScrollLocked(locked bool) {
	d.mu.Lock()
	d.state.ScrollLocked = locked
	d.mu.Unlock()
}

func (d *Dialog) Render(frame Frame) {
	d.mu.Lock()
	d.state.Frame = frame
	d.state.Renders++
	d.mu.Unlock()
}

func (d *Dialog) Focus(target string) {
	d.mu.Lock()
	d.state.Focus = target
	d.mu.Unlock()
}

// State returns a copy of the current dialog state.
func (d *Dialog) State() DialogState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// WriteHTML renders the dialog markup.
func (d *Dialog) WriteHTML(w io.Writer) error {
	s := d.State()
	aria := "true"
	if s.Visible {
		aria = "false"
	}
	step := s.Frame.Step
	if step == 0 {
		step = 1
	}
	return renderDialog(w, dialogView{
		Endpoint:     d.endpoint,
		Visible:      s.Visible,
		AriaHidden:   aria,
		ScrollLocked: s.ScrollLocked,
		Focus:        s.Focus,
		Step:         step,
		TotalSteps:   TotalSteps,
		Progress:     step * 100 / TotalSteps,
		Body:         s.Frame.Body,
	})
}

var _ Surface = (*Dialog)(nil)
