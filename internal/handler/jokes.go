package handler

import (
	"context"
	"errors"

	"github.com/pavelanni/portfolio/internal/console"
	"github.com/pavelanni/portfolio/internal/jokes"
)

// Jokes tells jokes from a viewer.
type Jokes struct {
	base
	viewer *jokes.Viewer
}

func NewJokes(c *console.Console, v *jokes.Viewer) *Jokes {
	return &Jokes{base: newBase(c), viewer: v}
}

func (h *Jokes) Routes(c *console.Console) {
	c.Handle([]string{"joke", "next", "tell"}, "HelpJokesNext", h.handleNext)
	c.Handle([]string{"punchline", "reveal", "show"}, "HelpJokesReveal", h.handleReveal)
}

// Start greets the user and tells the first joke.
func (h *Jokes) Start() {
	h.say("JokesTitle")
	h.sayp("JokesLoaded", h.viewer.Len())
	_ = h.handleNext(context.Background(), nil)
}

func (h *Jokes) handleNext(context.Context, []string) error {
	setup, err := h.viewer.Next()
	if errors.Is(err, jokes.ErrRevealFirst) {
		h.say("JokesRevealFirst")
		return nil
	}
	if err != nil {
		return err
	}
	h.c.Println()
	h.c.Println(setup)
	return nil
}

func (h *Jokes) handleReveal(context.Context, []string) error {
	punch, err := h.viewer.Reveal()
	if errors.Is(err, jokes.ErrNoJoke) {
		h.say("JokesNoJoke")
		return nil
	}
	if err != nil {
		return err
	}
	h.c.Println(punch)
	return nil
}
