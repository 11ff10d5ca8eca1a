package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pavelanni/portfolio/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestResult(t *testing.T, s *Store, d model.Difficulty, score int) int64 {
	t.Helper()
	pct := float64(score)
	id, err := s.InsertQuizResult(model.QuizResult{
		Difficulty: d,
		Score:      score,
		MaxScore:   100,
		Percentage: pct,
		Rank:       model.QuizRank(pct),
		FinishedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("insertTestResult: %v", err)
	}
	return id
}

func TestNewUnopenablePath(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "missing", "portfolio.db"))
	if err == nil {
		s.Close()
		t.Fatal("expected error for a database in a missing directory")
	}
	if s != nil {
		t.Errorf("expected nil store on error, got %v", s)
	}
}

func TestQuizResultCRUD(t *testing.T) {
	s := newTestStore(t)

	count, err := s.QuizResultCount()
	if err != nil {
		t.Fatalf("QuizResultCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 results, got %d", count)
	}

	list, err := s.ListQuizResults("", 0)
	if err != nil {
		t.Fatalf("ListQuizResults: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	first := insertTestResult(t, s, model.DifficultyEasy, 90)
	second := insertTestResult(t, s, model.DifficultyEasy, 40)
	insertTestResult(t, s, model.DifficultyAdvanced, 65)

	list, err = s.ListQuizResults("", 0)
	if err != nil {
		t.Fatalf("ListQuizResults: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 results, got %d", len(list))
	}
	if list[2].ID != first || list[1].ID != second {
		t.Error("results should be listed newest first")
	}
	if list[2].Rank != "A+" || list[2].Difficulty != model.DifficultyEasy {
		t.Errorf("unexpected stored result %+v", list[2])
	}
	if !list[2].FinishedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected finished_at %v", list[2].FinishedAt)
	}
}

func TestListQuizResultsFiltered(t *testing.T) {
	s := newTestStore(t)
	insertTestResult(t, s, model.DifficultyEasy, 10)
	insertTestResult(t, s, model.DifficultyEasy, 20)
	insertTestResult(t, s, model.DifficultyModerate, 30)

	tests := []struct {
		name       string
		difficulty model.Difficulty
		limit      int
		wantCount  int
	}{
		{"no filter", "", 0, 3},
		{"easy", model.DifficultyEasy, 0, 2},
		{"moderate", model.DifficultyModerate, 0, 1},
		{"advanced", model.DifficultyAdvanced, 0, 0},
		{"limit", "", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := s.ListQuizResults(tt.difficulty, tt.limit)
			if err != nil {
				t.Fatalf("ListQuizResults: %v", err)
			}
			if len(rs) != tt.wantCount {
				t.Errorf("expected %d results, got %d", tt.wantCount, len(rs))
			}
		})
	}
}

func TestBestQuizResult(t *testing.T) {
	s := newTestStore(t)

	best, err := s.BestQuizResult(model.DifficultyEasy)
	if err != nil {
		t.Fatalf("BestQuizResult: %v", err)
	}
	if best != nil {
		t.Fatalf("expected nil, got %+v", best)
	}

	insertTestResult(t, s, model.DifficultyEasy, 50)
	insertTestResult(t, s, model.DifficultyEasy, 85)
	insertTestResult(t, s, model.DifficultyModerate, 100)

	best, err = s.BestQuizResult(model.DifficultyEasy)
	if err != nil {
		t.Fatalf("BestQuizResult: %v", err)
	}
	if best == nil || best.Score != 85 {
		t.Errorf("expected best score 85, got %+v", best)
	}
}

func TestMetadata(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetMetadata("missing")
	if err != nil || v != "" {
		t.Fatalf("GetMetadata(missing) = %q, %v", v, err)
	}

	d, err := s.LastDifficulty()
	if err != nil || d != "" {
		t.Fatalf("LastDifficulty = %q, %v", d, err)
	}
	if err := s.SetLastDifficulty(model.DifficultyEasy); err != nil {
		t.Fatalf("SetLastDifficulty: %v", err)
	}
	if err := s.SetLastDifficulty(model.DifficultyAdvanced); err != nil {
		t.Fatalf("SetLastDifficulty: %v", err)
	}
	d, err = s.LastDifficulty()
	if err != nil || d != model.DifficultyAdvanced {
		t.Errorf("LastDifficulty = %q, %v; want advanced", d, err)
	}
}

func TestExportQuizHistory(t *testing.T) {
	s := newTestStore(t)

	exp, err := s.ExportQuizHistory()
	if err != nil {
		t.Fatalf("ExportQuizHistory: %v", err)
	}
	if exp.Played != 0 || len(exp.Levels) != 0 || exp.Results == nil {
		t.Errorf("unexpected empty export %+v", exp)
	}

	insertTestResult(t, s, model.DifficultyEasy, 60)
	insertTestResult(t, s, model.DifficultyEasy, 100)
	insertTestResult(t, s, model.DifficultyAdvanced, 30)

	exp, err = s.ExportQuizHistory()
	if err != nil {
		t.Fatalf("ExportQuizHistory: %v", err)
	}
	if exp.Played != 3 || len(exp.Levels) != 2 {
		t.Fatalf("unexpected export %+v", exp)
	}
	easy := exp.Levels[0]
	if easy.Difficulty != model.DifficultyEasy || easy.Played != 2 || easy.AveragePercentage != 80 ||
		easy.BestScore != 100 || easy.BestRank != "A+" {
		t.Errorf("unexpected easy stats %+v", easy)
	}
	if exp.Levels[1].Difficulty != model.DifficultyAdvanced || exp.Levels[1].BestRank != "F" {
		t.Errorf("unexpected advanced stats %+v", exp.Levels[1])
	}
}
