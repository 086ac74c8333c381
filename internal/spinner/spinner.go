// Package spinner draws a one-line progress indicator on interactive terminals.
package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const interval = 80 * time.Millisecond

// Spinner animates a message and an optional done/total counter.
type Spinner struct {
	w       io.Writer
	message string

	mu          sync.Mutex
	done, total int
	width       int

	stop     chan struct{}
	cleared  chan struct{}
	stopOnce sync.Once
}

// Interactive reports whether w is a terminal. Spinners written anywhere else
// would leave carriage returns in logs and CI output.
func Interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start displays an animated spinner with the given message on w.
// Call Stop to halt it and clear the line.
func Start(w io.Writer, message string) *Spinner {
	s := &Spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	go s.run()
	return s
}

// Progress records how many of total items are finished. It is safe to call
// from multiple goroutines and matches collector.RunnerOptions.Progress.
func (s *Spinner) Progress(done, total int) {
	s.mu.Lock()
	s.done, s.total = done, total
	s.mu.Unlock()
}

// Stop halts the animation and clears the line. It is safe to call more than
// once and on a nil Spinner.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.cleared
}

func (s *Spinner) run() {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.stop:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width)) //nolint:errcheck
			s.mu.Unlock()
			close(s.cleared)
			return
		case <-ticker.C:
			s.draw(frames[i%len(frames)])
		}
	}
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.line(frame)
	w := runewidth.StringWidth(line)
	pad := ""
	if w < s.width {
		pad = strings.Repeat(" ", s.width-w)
	}
	s.width = max(s.width, w)
	fmt.Fprintf(s.w, "\r%s%s", line, pad) //nolint:errcheck
}

// line must be called with mu held.
func (s *Spinner) line(frame string) string {
	if s.total == 0 {
		return frame + " " + s.message
	}
	return fmt.Sprintf("%s %s (%d/%d)", frame, s.message, s.done, s.total)
}
