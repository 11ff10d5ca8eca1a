package model

import (
	"strconv"
	"time"
)

// Score limits for a student record.
const (
	MaxCourseworkPart = 20
	MaxCoursework     = 3 * MaxCourseworkPart
	MaxExam           = 100
	MaxTotal          = MaxCoursework + MaxExam
)

// Difficulty represents a quiz difficulty level.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyAdvanced Difficulty = "advanced"
)

// Range returns the inclusive operand range for the difficulty.
func (d Difficulty) Range() (lo, hi int, ok bool) {
	switch d {
	case DifficultyEasy:
		return 1, 9, true
	case DifficultyModerate:
		return 10, 99, true
	case DifficultyAdvanced:
		return 1000, 9999, true
	}
	return 0, 0, false
}

// QuizResult is a finished quiz as kept in the history.
type QuizResult struct {
	ID         int64      `json:"id"`
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"`
	MaxScore   int        `json:"max_score"`
	Percentage float64    `json:"percentage"`
	Rank       string     `json:"rank"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Joke is a setup/punchline pair.
type Joke struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// Student holds the raw marks of one student. Everything else is derived.
type Student struct {
	Code string `json:"code"`
	Name string `json:"name"`
	CW1  int    `json:"cw1"`
	CW2  int    `json:"cw2"`
	CW3  int    `json:"cw3"`
	Exam int    `json:"exam"`
}

// Marks are the values derived from a Student's raw scores.
type Marks struct {
	Coursework int     `json:"coursework"`
	Total      int     `json:"total"`
	Percent    float64 `json:"percent"`
	Grade      string  `json:"grade"`
}

// Record is a student together with its derived marks.
type Record struct {
	Student
	Marks
}

// NewRecord derives the marks for s.
func NewRecord(s Student) Record {
	return Record{Student: s, Marks: Derive(s)}
}

// Derive computes coursework, total, percent and grade from the raw scores.
func Derive(s Student) Marks {
	cw := s.CW1 + s.CW2 + s.CW3
	total := cw + s.Exam
	pct := roundPercent(float64(total) / MaxTotal * 100)
	return Marks{
		Coursework: cw,
		Total:      total,
		Percent:    pct,
		Grade:      LetterGrade(pct),
	}
}

// roundPercent rounds p to two decimals using the nearest decimal expansion
// of the float, so an exact half such as 0.625 goes to the even digit.
func roundPercent(p float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 2, 64), 64)
	if err != nil {
		return p
	}
	return r
}

// LetterGrade maps a percentage to a letter grade.
func LetterGrade(pct float64) string {
	switch {
	case pct >= 70:
		return "A"
	case pct >= 60:
		return "B"
	case pct >= 50:
		return "C"
	case pct >= 40:
		return "D"
	}
	return "F"
}

// QuizRank maps a quiz percentage to a rank.
func QuizRank(pct float64) string {
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	}
	return "F"
}
