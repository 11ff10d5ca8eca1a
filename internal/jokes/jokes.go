package jokes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/pavelanni/portfolio/internal/model"
)

var (
	ErrSourceMissing = errors.New("joke source missing or unreadable")
	ErrNoJokes       = errors.New("no jokes loaded")
	ErrRevealFirst   = errors.New("reveal the punchline first")
	ErrNoJoke        = errors.New("no joke drawn yet")
)

// Load reads jokes from the file at path.
func Load(path string) ([]model.Joke, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceMissing, err)
	}
	defer f.Close()

	jokes, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceMissing, err)
	}
	slog.Info("loaded jokes", "path", path, "count", len(jokes))
	return jokes, nil
}

// Parse reads one "setup? punchline" joke per line. Lines without a
// question mark are skipped.
func Parse(r io.Reader) ([]model.Joke, error) {
	var jokes []model.Joke
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if j, ok := ParseLine(sc.Text()); ok {
			jokes = append(jokes, j)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read jokes: %w", err)
	}
	return jokes, nil
}

// ParseLine splits a line on the first "? " or, failing that, the first "?".
func ParseLine(line string) (model.Joke, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.Contains(line, "?") {
		return model.Joke{}, false
	}
	setup, punch, found := strings.Cut(line, "? ")
	if !found {
		setup, punch, _ = strings.Cut(line, "?")
	}
	return model.Joke{
		Setup:     strings.TrimSpace(setup) + "?",
		Punchline: strings.TrimSpace(punch),
	}, true
}

// Viewer draws jokes at random and holds back the punchline until revealed.
type Viewer struct {
	jokes    []model.Joke
	rng      *rand.Rand
	current  model.Joke
	drawn    bool
	revealed bool
}

// NewViewer creates a Viewer over jokes. A nil rng falls back to a randomly seeded one.
func NewViewer(jokes []model.Joke, rng *rand.Rand) (*Viewer, error) {
	if len(jokes) == 0 {
		return nil, ErrNoJokes
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Viewer{jokes: jokes, rng: rng}, nil
}

// Next picks a joke uniformly at random and returns its setup.
// Drawing is blocked until the previous punchline has been revealed.
func (v *Viewer) Next() (string, error) {
	if v.drawn && !v.revealed {
		return "", ErrRevealFirst
	}
	v.current = v.jokes[v.rng.IntN(len(v.jokes))]
	v.drawn = true
	v.revealed = false
	return v.current.Setup, nil
}

// Reveal returns the punchline of the current joke and allows a new draw.
func (v *Viewer) Reveal() (string, error) {
	if !v.drawn {
		return "", ErrNoJoke
	}
	v.revealed = true
	return v.current.Punchline, nil
}

// CanDraw reports whether Next would succeed.
func (v *Viewer) CanDraw() bool {
	return !v.drawn || v.revealed
}

// Current returns the joke on display.
func (v *Viewer) Current() (model.Joke, bool) {
	return v.current, v.drawn
}

// Len returns the number of loaded jokes.
func (v *Viewer) Len() int {
	return len(v.jokes)
}
