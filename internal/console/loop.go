package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/pavelanni/portfolio/internal/quiz"
)

// Loop runs input lines and timer continuations one at a time on the
// goroutine that calls Run. Input is held back while a timer is pending,
// so a scheduled continuation always runs before the next line.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	pending int
}

// NewLoop creates an idle Loop.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 16),
		done:  make(chan struct{}),
	}
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

type loopTimer struct {
	loop     *Loop
	t        *time.Timer
	finished bool
}

// Stop cancels the continuation. It must be called on the loop goroutine.
func (lt *loopTimer) Stop() bool {
	if lt.finished {
		return false
	}
	lt.finished = true
	lt.loop.pending--
	lt.t.Stop()
	return true
}

// After schedules fn on the loop goroutine once d has elapsed.
// It must be called on the loop goroutine.
func (l *Loop) After(d time.Duration, fn func()) quiz.Timer {
	lt := &loopTimer{loop: l}
	l.pending++
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.finished {
				return
			}
			lt.finished = true
			l.pending--
			fn()
		})
	})
	return lt
}

// Pending returns the number of scheduled continuations that have not run.
func (l *Loop) Pending() int { return l.pending }

// Run feeds lines from in to handle until handle returns an error, the
// input ends and no timers are pending, or ctx is cancelled. ErrQuit from
// handle ends the loop without error.
func (l *Loop) Run(ctx context.Context, in io.Reader, handle func(ctx context.Context, line string) error) error {
	defer close(l.done)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-l.done:
				return
			}
		}
		readErr <- sc.Err()
	}()

	eof := false
	for {
		if eof && l.pending == 0 {
			select {
			case err := <-readErr:
				return err
			default:
				return nil
			}
		}

		input := lines
		if eof || l.pending > 0 {
			input = nil
		}

		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.tasks:
			fn()
		case line, ok := <-input:
			if !ok {
				eof = true
				continue
			}
			if err := handle(ctx, line); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
		}
	}
}
