package quiz

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/pavelanni/portfolio/internal/model"
)

const (
	// TotalQuestions is the number of questions in one quiz.
	TotalQuestions = 10

	// AttemptsPerQuestion is how many answers a question accepts.
	AttemptsPerQuestion = 2

	// Points for a correct answer on the first and second attempt.
	PointsFirstAttempt  = 10
	PointsSecondAttempt = 5

	// CorrectDelay and RevealDelay are the pauses before the next question.
	CorrectDelay = 1500 * time.Millisecond
	RevealDelay  = 2 * time.Second
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotStarted   = errors.New("quiz not started")
	ErrAwaitingNext = errors.New("waiting for next question")
	ErrQuizFinished = errors.New("quiz finished")
	ErrUnknownLevel = errors.New("unknown difficulty")
)

// Timer is a pending continuation that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

// Observer is told when a question is ready and when the quiz ends.
type Observer interface {
	QuestionReady(q Question)
	Finished(r Result)
}

// Operator is the arithmetic operation of a question.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
)

// Question is one generated problem.
type Question struct {
	Number int
	Total  int
	Left   int
	Op     Operator
	Right  int
	Answer int
}

func (q Question) String() string {
	return fmt.Sprintf("%d %s %d", q.Left, q.Op, q.Right)
}

// Status describes what happened to a submitted answer.
type Status string

const (
	StatusCorrect  Status = "correct"
	StatusRetry    Status = "retry"
	StatusRevealed Status = "revealed"
)

// Outcome is the result of one submission.
type Outcome struct {
	Status  Status
	Awarded int
	Answer  int
	Score   int
}

// Result is the summary shown when the quiz ends.
type Result struct {
	Difficulty model.Difficulty
	Score      int
	MaxScore   int
	Percentage float64
	Rank       string
}

// Session holds the state of one player's quiz.
type Session struct {
	rng      *rand.Rand
	sched    Scheduler
	observer Observer

	difficulty model.Difficulty
	lo, hi     int
	started    bool
	finished   bool
	score      int
	index      int
	attempts   int
	current    Question
	pending    Timer
}

// New creates a Session. A nil rng falls back to a randomly seeded one.
func New(rng *rand.Rand, sched Scheduler, obs Observer) *Session {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Session{rng: rng, sched: sched, observer: obs}
}

// ParseDifficulty accepts a level name or its menu number.
func ParseDifficulty(s string) (model.Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "easy":
		return model.DifficultyEasy, nil
	case "2", "moderate":
		return model.DifficultyModerate, nil
	case "3", "advanced":
		return model.DifficultyAdvanced, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// SelectDifficulty sets the operand range and starts a new quiz.
func (s *Session) SelectDifficulty(d model.Difficulty) error {
	lo, hi, ok := d.Range()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, d)
	}
	s.Stop()
	s.difficulty, s.lo, s.hi = d, lo, hi
	s.started = true
	s.finished = false
	s.score = 0
	s.index = 0
	s.attempts = AttemptsPerQuestion
	slog.Debug("quiz started", "difficulty", d)
	s.Next()
	return nil
}

// Next moves to the next question, or finishes the quiz after the last one.
func (s *Session) Next() {
	s.pending = nil
	if !s.started || s.finished {
		return
	}
	if s.index >= TotalQuestions {
		s.finished = true
		res := s.Results()
		slog.Debug("quiz finished", "score", res.Score, "rank", res.Rank)
		if s.observer != nil {
			s.observer.Finished(res)
		}
		return
	}

	s.index++
	s.attempts = AttemptsPerQuestion

	left := s.randomInt()
	right := s.randomInt()
	op := OpAdd
	if s.rng.IntN(2) == 1 {
		op = OpSub
	}
	if op == OpSub && left < right {
		left, right = right, left
	}
	answer := left + right
	if op == OpSub {
		answer = left - right
	}
	s.current = Question{
		Number: s.index,
		Total:  TotalQuestions,
		Left:   left,
		Op:     op,
		Right:  right,
		Answer: answer,
	}
	if s.observer != nil {
		s.observer.QuestionReady(s.current)
	}
}

func (s *Session) randomInt() int {
	return s.lo + s.rng.IntN(s.hi-s.lo+1)
}

// Submit checks an answer typed by the player.
func (s *Session) Submit(text string) (Outcome, error) {
	switch {
	case !s.started:
		return Outcome{}, ErrNotStarted
	case s.finished:
		return Outcome{}, ErrQuizFinished
	case s.pending != nil:
		return Outcome{}, ErrAwaitingNext
	}

	guess, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %q is not a whole number", ErrInvalidInput, text)
	}

	if guess == s.current.Answer {
		awarded := PointsSecondAttempt
		if s.attempts == AttemptsPerQuestion {
			awarded = PointsFirstAttempt
		}
		s.score += awarded
		s.schedule(CorrectDelay)
		return Outcome{Status: StatusCorrect, Awarded: awarded, Answer: s.current.Answer, Score: s.score}, nil
	}

	s.attempts--
	if s.attempts > 0 {
		return Outcome{Status: StatusRetry, Score: s.score}, nil
	}
	s.schedule(RevealDelay)
	return Outcome{Status: StatusRevealed, Answer: s.current.Answer, Score: s.score}, nil
}

func (s *Session) schedule(d time.Duration) {
	if s.sched == nil {
		s.Next()
		return
	}
	// Marked before After so a scheduler that fires synchronously still clears it.
	s.pending = noopTimer{}
	t := s.sched.After(d, s.Next)
	if s.pending != nil {
		s.pending = t
	}
}

// Stop cancels a pending advance.
func (s *Session) Stop() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// Results computes the final percentage and rank for the current score.
func (s *Session) Results() Result {
	maxScore := TotalQuestions * PointsFirstAttempt
	pct := float64(s.score) / float64(maxScore) * 100
	return Result{
		Difficulty: s.difficulty,
		Score:      s.score,
		MaxScore:   maxScore,
		Percentage: pct,
		Rank:       model.QuizRank(pct),
	}
}

// Current returns the question being asked.
func (s *Session) Current() Question { return s.current }

// Score returns the points earned so far.
func (s *Session) Score() int { return s.score }

// AttemptsLeft returns the attempts remaining for the current question.
func (s *Session) AttemptsLeft() int { return s.attempts }

// Finished reports whether the results have been reached.
func (s *Session) Finished() bool { return s.finished }

// Started reports whether a difficulty has been selected.
func (s *Session) Started() bool { return s.started }

type noopTimer struct{}

func (noopTimer) Stop() bool { return false }
