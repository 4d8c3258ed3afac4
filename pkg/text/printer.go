package text

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Printer is the text output capability exposed to applications.
type Printer interface {
	Print(markup string) error
}

// PrinterFunc adapts a function to the Printer interface.
type PrinterFunc func(markup string) error

// Print calls f(markup).
func (f PrinterFunc) Print(markup string) error {
	return f(markup)
}

// Option configures a TermPrinter.
type Option func(*TermPrinter)

// WithWidth word-wraps rendered output at n cells. Zero disables wrapping.
func WithWidth(n int) Option {
	return func(p *TermPrinter) { p.width = n }
}

// WithProfile forces a color profile instead of detecting one from the writer.
func WithProfile(profile termenv.Profile) Option {
	return func(p *TermPrinter) { p.renderer.SetColorProfile(profile) }
}

// TermPrinter renders markup with terminal styles and writes it to w.
// It is safe for concurrent use.
type TermPrinter struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
	width    int
}

// NewTermPrinter creates a printer writing to w.
func NewTermPrinter(w io.Writer, opts ...Option) *TermPrinter {
	p := &TermPrinter{
		w:        w,
		renderer: lipgloss.NewRenderer(w),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Render returns the styled form of markup without writing it.
func (p *TermPrinter) Render(markup string) string {
	return RenderWith(p.renderer, markup, p.width)
}

// Print renders markup and writes it to the underlying writer.
func (p *TermPrinter) Print(markup string) error {
	out := p.Render(markup)

	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := io.WriteString(p.w, out)
	return err
}

// RenderWith styles markup using r and wraps it at width cells when width > 0.
func RenderWith(r *lipgloss.Renderer, markup string, width int) string {
	var sb strings.Builder
	for _, s := range Parse(markup) {
		if s.Plain() {
			sb.WriteString(s.Text)
			continue
		}
		// Styled lines are rendered one at a time so lipgloss does not pad
		// them to a common block width.
		style := r.NewStyle().Bold(s.Bold).Underline(s.Underline).Italic(s.Italic)
		for i, line := range strings.Split(s.Text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line != "" {
				sb.WriteString(style.Render(line))
			}
		}
	}

	out := sb.String()
	if width > 0 {
		out = ansi.Wordwrap(out, width, "")
	}
	return out
}

// Buffer is a Printer that keeps every payload it receives. The interactive
// run loop renders from it once the terminal size is known.
type Buffer struct {
	mu     sync.Mutex
	blocks []string
}

// Print records markup.
func (b *Buffer) Print(markup string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blocks = append(b.blocks, markup)
	return nil
}

// Blocks returns a copy of the recorded payloads in arrival order.
func (b *Buffer) Blocks() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.blocks))
	copy(out, b.blocks)
	return out
}

// Len returns the number of recorded payloads.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.blocks)
}

// Raw returns all payloads concatenated, markup included.
func (b *Buffer) Raw() string {
	return strings.Join(b.Blocks(), "")
}

// Reset drops all recorded payloads.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blocks = nil
}
