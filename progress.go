package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

const progressWidth = 20

// progressPrinter prints a coloured bar at every 10% step. Reports may
// arrive concurrently and out of order from render workers.
type progressPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	out   *termenv.Output
	label string
	next  int // next percentage that prints
}

func newProgressPrinter(w io.Writer, label string, opts ...termenv.OutputOption) *progressPrinter {
	return &progressPrinter{w: w, out: termenv.NewOutput(w, opts...), label: label, next: 10}
}

// Report implements renderer.ProgressFunc
func (p *progressPrinter) Report(done, total int) {
	if total <= 0 {
		return
	}
	pct := done * 100 / total

	p.mu.Lock()
	defer p.mu.Unlock()
	if pct < p.next {
		return
	}
	p.next = pct/10*10 + 10

	filled := pct * progressWidth / 100
	bar := p.out.String(strings.Repeat("#", filled)).Foreground(p.out.Color("2")).String() +
		p.out.String(strings.Repeat(".", progressWidth-filled)).Faint().String()
	fmt.Fprintf(p.w, "[%s] %3d%% %d/%d %s\n", bar, pct, done, total, p.label)
}
