package cli

import (
	"fmt"
	"os"
	"sync"
)

var outputMu sync.Mutex

// LineProgress renders an in-place processed-line counter on stderr.
//
// It stays silent unless stderr is a terminal, so redirected diagnostics and
// the stdout data stream are never polluted by control characters.
type LineProgress struct {
	label   string
	every   int
	count   int
	enabled bool
}

// NewLineProgress creates a progress renderer that redraws once per `every`
// processed lines.
func NewLineProgress(label string, every int) *LineProgress {
	if every <= 0 {
		every = 1000
	}
	return &LineProgress{label: label, every: every, enabled: isTerminal(os.Stderr)}
}

// Add advances the counter by n lines, redrawing when a redraw step is
// crossed.
func (p *LineProgress) Add(n int) {
	if !p.enabled || n <= 0 {
		return
	}
	prev := p.count / p.every
	p.count += n
	if p.count/p.every != prev {
		p.render(false)
	}
}

// Stop finalizes the progress display with a trailing newline.
func (p *LineProgress) Stop() {
	if !p.enabled || p.count == 0 {
		return
	}
	p.render(true)
}

func (p *LineProgress) render(done bool) {
	outputMu.Lock()
	defer outputMu.Unlock()
	if done {
		fmt.Fprintf(os.Stderr, "\r%s: %d lines\n", p.label, p.count)
		return
	}
	fmt.Fprintf(os.Stderr, "\r%s: %d lines", p.label, p.count)
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
