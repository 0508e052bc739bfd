package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/khanhnv2901/headerguard/internal/lifecycle"
	"github.com/mattn/go-isatty"
)

// loadingDisplay renders the rotating loading message. On a terminal the
// line is rewritten in place; otherwise each distinct message is printed once.
type loadingDisplay struct {
	out      io.Writer
	tty      bool
	disabled bool

	mu    sync.Mutex
	last  string
	width int
}

func newLoadingDisplay(out io.Writer, tty, disabled bool) *loadingDisplay {
	return &loadingDisplay{out: out, tty: tty, disabled: disabled}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Update is the controller listener.
func (d *loadingDisplay) Update(s lifecycle.State) {
	if d == nil || d.disabled {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if s.Phase != lifecycle.PhaseLoading {
		d.clear()
		return
	}

	line := fmt.Sprintf("[%s] %s", s.URL, s.Message())
	if line == d.last {
		return
	}
	d.last = line

	if !d.tty {
		fmt.Fprintln(d.out, line)
		return
	}
	pad := ""
	if d.width > len(line) {
		pad = strings.Repeat(" ", d.width-len(line))
	}
	fmt.Fprintf(d.out, "\r%s%s", line, pad)
	d.width = len(line)
}

func (d *loadingDisplay) clear() {
	if d.tty && d.width > 0 {
		fmt.Fprintf(d.out, "\r%s\r", strings.Repeat(" ", d.width))
	}
	d.width = 0
	d.last = ""
}
