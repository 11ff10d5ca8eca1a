package handler

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/pavelanni/portfolio/internal/console"
	"github.com/pavelanni/portfolio/internal/model"
	"github.com/pavelanni/portfolio/internal/quiz"
)

// History keeps finished quizzes. It may be nil.
type History interface {
	InsertQuizResult(r model.QuizResult) (int64, error)
	SetLastDifficulty(d model.Difficulty) error
	LastDifficulty() (model.Difficulty, error)
}

// Quiz runs the arithmetic quiz on a console.
type Quiz struct {
	base
	session *quiz.Session
	history History
}

// NewQuiz creates a quiz whose delays run on sched.
func NewQuiz(c *console.Console, sched quiz.Scheduler, history History, rng *rand.Rand) *Quiz {
	h := &Quiz{base: newBase(c), history: history}
	h.session = quiz.New(rng, sched, h)
	return h
}

// Session exposes the underlying engine.
func (h *Quiz) Session() *quiz.Session { return h.session }

// Routes registers the quiz commands.
func (h *Quiz) Routes(c *console.Console) {
	c.Handle([]string{"start", "level", "difficulty"}, "HelpQuizLevel", h.handleStart)
	c.Handle([]string{"answer", "a"}, "HelpQuizAnswer", h.handleAnswer)
	c.Handle([]string{"score"}, "HelpQuizScore", h.handleScore)
	c.Fallback(h.handleBare)
}

// Start prints the difficulty menu.
func (h *Quiz) Start() {
	h.say("QuizTitle")
	h.say("QuizMenu")
	if h.history == nil {
		return
	}
	last, err := h.history.LastDifficulty()
	if err != nil {
		slog.Warn("failed to read last difficulty", "error", err)
		return
	}
	if last != "" {
		h.sayd("QuizLastPlayed", map[string]any{"Level": last})
	}
}

func (h *Quiz) handleStart(_ context.Context, args []string) error {
	if len(args) == 0 {
		h.say("QuizMenu")
		return nil
	}
	d, err := quiz.ParseDifficulty(args[0])
	if err != nil {
		h.sayd("QuizUnknownLevel", map[string]any{"Level": args[0]})
		return nil
	}
	if h.history != nil {
		if err := h.history.SetLastDifficulty(d); err != nil {
			slog.Warn("failed to save last difficulty", "error", err)
		}
	}
	return h.session.SelectDifficulty(d)
}

func (h *Quiz) handleAnswer(_ context.Context, args []string) error {
	h.submit(strings.Join(args, " "))
	return nil
}

// handleBare treats a bare word as a menu choice between quizzes and as an
// answer during one. A level name still restarts a running quiz.
func (h *Quiz) handleBare(ctx context.Context, args []string) error {
	if !h.session.Started() || h.session.Finished() {
		return h.handleStart(ctx, args)
	}
	if _, err := strconv.Atoi(args[0]); err != nil {
		if _, err := quiz.ParseDifficulty(args[0]); err == nil {
			return h.handleStart(ctx, args)
		}
	}
	h.submit(strings.Join(args, " "))
	return nil
}

func (h *Quiz) handleScore(context.Context, []string) error {
	if !h.session.Started() {
		h.say("QuizNotStarted")
		return nil
	}
	h.printScore()
	return nil
}

func (h *Quiz) submit(text string) {
	out, err := h.session.Submit(text)
	switch {
	case errors.Is(err, quiz.ErrInvalidInput):
		h.say("QuizInvalid")
		return
	case errors.Is(err, quiz.ErrNotStarted), errors.Is(err, quiz.ErrQuizFinished):
		h.say("QuizNotStarted")
		return
	case errors.Is(err, quiz.ErrAwaitingNext):
		h.say("QuizWait")
		return
	case err != nil:
		slog.Error("submit failed", "error", err)
		return
	}

	switch out.Status {
	case quiz.StatusCorrect:
		if out.Awarded == quiz.PointsFirstAttempt {
			h.say("QuizCorrectFirst")
		} else {
			h.say("QuizCorrectSecond")
		}
		h.printScore()
	case quiz.StatusRetry:
		h.say("QuizRetry")
	case quiz.StatusRevealed:
		h.sayd("QuizReveal", map[string]any{"Answer": out.Answer})
	}
}

func (h *Quiz) printScore() {
	q := h.session.Current()
	h.sayd("QuizScore", map[string]any{"Score": h.session.Score(), "Number": q.Number, "Total": q.Total})
}

// QuestionReady prints a new question.
func (h *Quiz) QuestionReady(q quiz.Question) {
	h.c.Println()
	h.sayd("QuizQuestion", map[string]any{"Number": q.Number, "Total": q.Total, "Problem": q.String()})
}

// Finished prints the results screen and records the result.
func (h *Quiz) Finished(r quiz.Result) {
	h.c.Println()
	h.say("QuizFinished")
	h.sayd("QuizFinalScore", map[string]any{
		"Score":      r.Score,
		"Max":        r.MaxScore,
		"Percentage": formatPercent(r.Percentage, 1),
	})
	h.sayd("QuizRank", map[string]any{"Rank": r.Rank})
	h.say("QuizPlayAgain")

	if h.history == nil {
		return
	}
	_, err := h.history.InsertQuizResult(model.QuizResult{
		Difficulty: r.Difficulty,
		Score:      r.Score,
		MaxScore:   r.MaxScore,
		Percentage: r.Percentage,
		Rank:       r.Rank,
	})
	if err != nil {
		slog.Error("failed to record quiz result", "error", err)
	}
}
