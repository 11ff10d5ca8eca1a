package handler

import (
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/pavelanni/portfolio/internal/model"
	"github.com/pavelanni/portfolio/internal/quiz"
)

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }

// immediateScheduler runs continuations as soon as they are scheduled.
type immediateScheduler struct {
	delays []time.Duration
}

func (s *immediateScheduler) After(d time.Duration, fn func()) quiz.Timer {
	s.delays = append(s.delays, d)
	fn()
	return stoppedTimer{}
}

type fakeHistory struct {
	results []model.QuizResult
	last    model.Difficulty
}

func (f *fakeHistory) InsertQuizResult(r model.QuizResult) (int64, error) {
	f.results = append(f.results, r)
	return int64(len(f.results)), nil
}

func (f *fakeHistory) SetLastDifficulty(d model.Difficulty) error {
	f.last = d
	return nil
}

func (f *fakeHistory) LastDifficulty() (model.Difficulty, error) {
	return f.last, nil
}

func newTestQuiz(t *testing.T, hist *fakeHistory) (*Quiz, *immediateScheduler, func(lines ...string) string) {
	t.Helper()
	c, out := newTestConsole(t)
	sched := &immediateScheduler{}
	var h History
	if hist != nil {
		h = hist
	}
	q := NewQuiz(c, sched, h, rand.New(rand.NewPCG(3, 4)))
	Mount(c, q)
	return q, sched, func(lines ...string) string { return send(t, c, out, lines...) }
}

func TestQuizStartShowsLastPlayed(t *testing.T) {
	c, out := newTestConsole(t)
	hist := &fakeHistory{last: model.DifficultyModerate}
	Mount(c, NewQuiz(c, &immediateScheduler{}, hist, nil))
	assertContains(t, out.String(), "Arithmetic Quiz Challenge", "Select Difficulty Level", "Last played: moderate")
}

func TestQuizFullRunRecordsResult(t *testing.T) {
	hist := &fakeHistory{}
	q, sched, say := newTestQuiz(t, hist)

	got := say("easy")
	assertContains(t, got, "Question 1/10")
	if hist.last != model.DifficultyEasy {
		t.Errorf("last difficulty = %q, want easy", hist.last)
	}

	for i := 0; i < quiz.TotalQuestions; i++ {
		got = say(strconv.Itoa(q.Session().Current().Answer))
		assertContains(t, got, "Correct! (+10 points)")
	}
	assertContains(t, got, "Quiz Finished!", "100 out of 100", "Your Rank: A+")

	if len(hist.results) != 1 {
		t.Fatalf("stored %d results, want 1", len(hist.results))
	}
	r := hist.results[0]
	if r.Score != 100 || r.Rank != "A+" || r.Difficulty != model.DifficultyEasy {
		t.Errorf("stored result = %+v", r)
	}
	for _, d := range sched.delays {
		if d != quiz.CorrectDelay {
			t.Errorf("delay = %v, want %v", d, quiz.CorrectDelay)
		}
	}
}

func TestQuizSecondAttemptAndReveal(t *testing.T) {
	q, sched, say := newTestQuiz(t, nil)
	say("1")

	wrong := strconv.Itoa(q.Session().Current().Answer + 1)
	assertContains(t, say(wrong), "Incorrect. Try again!")
	assertContains(t, say("answer "+strconv.Itoa(q.Session().Current().Answer)), "+5 points on second attempt", "Score: 5")

	q2 := q.Session().Current()
	if q2.Number != 2 {
		t.Fatalf("question number = %d, want 2", q2.Number)
	}
	bad := strconv.Itoa(q2.Answer + 1)
	say(bad)
	assertContains(t, say(bad), "The answer was "+strconv.Itoa(q2.Answer))
	if last := sched.delays[len(sched.delays)-1]; last != quiz.RevealDelay {
		t.Errorf("reveal delay = %v, want %v", last, quiz.RevealDelay)
	}
	if q.Session().Current().Number != 3 {
		t.Errorf("question number = %d, want 3", q.Session().Current().Number)
	}
}

func TestQuizBareWords(t *testing.T) {
	q, _, say := newTestQuiz(t, nil)

	assertContains(t, say("hard"), `Unknown difficulty "hard"`)
	assertContains(t, say("score"), "Choose a difficulty first.")
	assertContains(t, say("answer 4"), "Choose a difficulty first.")

	say("advanced")
	assertContains(t, say("twelve"), "Please enter a valid number.")
	if q.Session().AttemptsLeft() != quiz.AttemptsPerQuestion {
		t.Error("invalid input used up an attempt")
	}

	say(strconv.Itoa(q.Session().Current().Answer))
	assertContains(t, say("easy"), "Question 1/10")
	if q.Session().Score() != 0 {
		t.Errorf("score after restart = %d, want 0", q.Session().Score())
	}
}
