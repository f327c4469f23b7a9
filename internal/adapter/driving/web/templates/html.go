package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// HTML writes markup for a component, keeping the first write error so
// callers can emit a whole fragment and check once.
type HTML struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewHTML returns an HTML writer for a component render call.
func NewHTML(ctx context.Context, w io.Writer) *HTML {
	return &HTML{ctx: ctx, w: w}
}

// Raw writes trusted markup unchanged.
func (h *HTML) Raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// Text writes s with HTML escaping.
func (h *HTML) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Int writes n as decimal text.
func (h *HTML) Int(n int) {
	h.Raw(strconv.Itoa(n))
}

// Attr writes ` name="value"` with the value escaped.
func (h *HTML) Attr(name, value string) {
	h.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// Href writes an href attribute, replacing unsafe URL schemes.
func (h *HTML) Href(u string) {
	h.Attr("href", string(templ.URL(u)))
}

// Hidden writes a hidden form input.
func (h *HTML) Hidden(name, value string) {
	h.Raw(`<input type="hidden"`)
	h.Attr("name", name)
	h.Attr("value", value)
	h.Raw(">")
}

// Component renders c in place.
func (h *HTML) Component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// Err returns the first error encountered.
func (h *HTML) Err() error {
	return h.err
}
