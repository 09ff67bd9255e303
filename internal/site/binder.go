package site

import (
	"bytes"
	"fmt"
	"html"

	"github.com/PuerkitoBio/goquery"
)

const (
	// TriggerAttr marks an element that opens the intake wizard.
	TriggerAttr = "data-intake-trigger"

	// OpenAttr is added to every bound trigger; the client script listens for it.
	OpenAttr = "data-intake-open"

	rootID   = "intake-root"
	dialogID = "intake-dialog"
)

// Binder wires intake triggers into static pages.
type Binder struct {
	Endpoint  string
	ScriptSrc string
}

// NewBinder returns a binder whose mounted dialog talks to endpoint.
func NewBinder(endpoint string) *Binder {
	if endpoint == "" {
		endpoint = "/intake"
	}
	return &Binder{Endpoint: endpoint, ScriptSrc: endpoint + "/intake.js"}
}

// Bind marks every trigger in page as a dialog opener and mounts the dialog
// root once. Pages without triggers are returned unchanged.
func (b *Binder) Bind(page []byte) ([]byte, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, 0, fmt.Errorf("site: parse page: %w", err)
	}

	triggers := doc.Find("[" + TriggerAttr + "]")
	if triggers.Length() == 0 {
		return page, 0, nil
	}

	triggers.Each(func(i int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); !ok || id == "" {
			s.SetAttr("id", fmt.Sprintf("intake-trigger-%d", i+1))
		}
		s.SetAttr("aria-haspopup", "dialog")
		s.SetAttr("aria-controls", dialogID)
		s.SetAttr(OpenAttr, "")
	})

	if doc.Find("#"+rootID).Length() == 0 {
		body := doc.Find("body")
		body.AppendHtml(fmt.Sprintf(`<div id="%s" data-intake-endpoint="%s"></div>`, rootID, html.EscapeString(b.Endpoint)))
		if doc.Find(`script[src="`+b.ScriptSrc+`"]`).Length() == 0 {
			body.AppendHtml(fmt.Sprintf(`<script src="%s" defer></script>`, html.EscapeString(b.ScriptSrc)))
		}
	}

	out, err := doc.Html()
	if err != nil {
		return nil, 0, fmt.Errorf("site: render page: %w", err)
	}
	return []byte(out), triggers.Length(), nil
}
