package draw

import (
	"fmt"
	"io"
	"strings"

	"github.com/rirc-go/rirc/buffer"
	"github.com/rirc-go/rirc/coordinator"
	"github.com/rirc-go/rirc/entity"
)

const (
	ansiClear    = "\x1b[2J"
	ansiHome     = "\x1b[H"
	ansiClearRow = "\x1b[2K"
)

// Renderer paints a Coordinator's current window to an io.Writer as a
// full-screen redraw: the buffer tail, a one-line status bar, and the
// input line. Deliberately minimal: no nicklist column, no colour.
type Renderer struct {
	term *Terminal
	out  io.Writer
}

// NewRenderer returns a Renderer sizing itself from term and writing to
// out.
func NewRenderer(term *Terminal, out io.Writer) *Renderer {
	return &Renderer{term: term, out: out}
}

// Draw repaints the screen for c's current window.
func (r *Renderer) Draw(c *coordinator.Coordinator) error {
	cols, rows := r.term.Size()
	srv, ch := c.Current()

	var b strings.Builder
	b.WriteString(ansiHome)

	textRows := rows - 2
	if textRows < 1 {
		textRows = 1
	}

	var lines []*buffer.Line
	if ch != nil {
		lines = ch.Buffer.Page(textRows)
	}
	for i := 0; i < textRows-len(lines); i++ {
		b.WriteString(ansiClearRow)
		b.WriteString("\r\n")
	}
	for _, line := range lines {
		b.WriteString(ansiClearRow)
		b.WriteString(formatLine(line, cols))
		b.WriteString("\r\n")
	}

	b.WriteString(ansiClearRow)
	b.WriteString(statusLine(srv, ch, cols))
	b.WriteString("\r\n")

	b.WriteString(ansiClearRow)
	b.WriteString(inputLine(ch, cols))

	_, err := io.WriteString(r.out, b.String())
	return err
}

// Clear paints a blank screen, used once on startup before the first
// Draw.
func (r *Renderer) Clear() error {
	_, err := io.WriteString(r.out, ansiClear+ansiHome)
	return err
}

// fromWidth is the fixed column the "from" field is padded to; buffer.Pad
// tracks the actual widest From seen per buffer, but a constant width
// keeps this minimal renderer simple.
const fromWidth = 16

func formatLine(l *buffer.Line, cols int) string {
	var s string
	if l.From == "" {
		s = l.Text
	} else {
		s = fmt.Sprintf("%-*s %s", fromWidth, l.From, l.Text)
	}
	return truncate(s, cols)
}

func truncate(s string, cols int) string {
	if cols <= 0 || len(s) <= cols {
		return s
	}
	return s[:cols]
}

func statusLine(srv *entity.Srv, ch *entity.Chan, cols int) string {
	if srv == nil || ch == nil {
		return truncate("[no server]", cols)
	}
	name := ch.Name
	if name == "" {
		name = srv.Host
	}
	status := fmt.Sprintf("[%s] %s", srv.Host, name)
	if srv.Pinging {
		status += " (ping)"
	}
	return truncate(status, cols)
}

func inputLine(ch *entity.Chan, cols int) string {
	prompt := "> "
	if ch == nil {
		return truncate(prompt, cols)
	}
	return truncate(prompt+ch.Input.Write(), cols)
}
