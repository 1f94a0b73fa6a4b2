package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Spinner animates a loading indicator in the terminal.
// It writes to stderr so report output on stdout stays pipeable.
type Spinner struct {
	frames []string
	msg    string
	out    io.Writer
	stop   chan struct{}
	done   chan struct{}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(msg string) *Spinner {
	return NewSpinnerTo(os.Stderr, msg)
}

// NewSpinnerTo creates a spinner drawing on out.
func NewSpinnerTo(out io.Writer, msg string) *Spinner {
	return &Spinner{
		frames: spinnerFrames,
		msg:    msg,
		out:    out,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins the spinner animation in a goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			frame := StyleBar.Render(s.frames[i%len(s.frames)])
			fmt.Fprintf(s.out, "\r%s  %s", frame, s.msg)
			select {
			case <-s.stop:
				fmt.Fprintf(s.out, "\r%-60s\r", "") // clear line
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop halts the spinner and waits for it to finish.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}
