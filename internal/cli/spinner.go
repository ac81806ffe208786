package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status line on stderr until stopped or until its
// parent context is cancelled. Long-running renders show the elapsed time.
type Spinner struct {
	out     io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
	width   int
}

// newSpinnerWithContext creates a spinner bound to ctx. Call Start to show it.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		message: message,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine. Call it once.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		defer s.clear()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		start := time.Now()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case now := <-ticker.C:
				s.draw(i, now.Sub(start))
			}
		}
	}()
}

func (s *Spinner) draw(frame int, elapsed time.Duration) {
	line := styleSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]) + " " + StyleDim.Render(s.message)
	if elapsed >= time.Second {
		line += StyleDim.Render(fmt.Sprintf(" (%ds)", int(elapsed.Seconds())))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, "\r"+line)
	s.width = max(s.width, len(line))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprint(s.out, "\r"+strings.Repeat(" ", s.width)+"\r")
	}
}

// Stop ends the animation, waits for the line to be cleared and is safe to
// call more than once. A spinner that was never started must not be stopped.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// StopWithError stops the spinner and prints msg as a failure.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the parent context has ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
