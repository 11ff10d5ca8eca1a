package store

import (
	"fmt"

	"github.com/pavelanni/portfolio/internal/model"
)

// ExportQuizHistory builds an export-ready summary of every stored quiz,
// with per-difficulty attempts and best scores.
func (s *Store) ExportQuizHistory() (model.QuizHistoryExport, error) {
	results, err := s.ListQuizResults("", 0)
	if err != nil {
		return model.QuizHistoryExport{}, fmt.Errorf("list quiz results: %w", err)
	}

	levels := []model.Difficulty{model.DifficultyEasy, model.DifficultyModerate, model.DifficultyAdvanced}
	var stats []model.DifficultyStats
	for _, d := range levels {
		st := model.DifficultyStats{Difficulty: d}
		var sum float64
		for _, r := range results {
			if r.Difficulty != d {
				continue
			}
			st.Played++
			sum += r.Percentage
		}
		if st.Played == 0 {
			continue
		}
		st.AveragePercentage = sum / float64(st.Played)

		best, err := s.BestQuizResult(d)
		if err != nil {
			return model.QuizHistoryExport{}, fmt.Errorf("best result for %s: %w", d, err)
		}
		if best != nil {
			st.BestScore = best.Score
			st.BestRank = best.Rank
		}
		stats = append(stats, st)
	}

	if results == nil {
		results = []model.QuizResult{}
	}
	return model.QuizHistoryExport{
		Played:  len(results),
		Levels:  stats,
		Results: results,
	}, nil
}
