package model

import "time"

// RecordsExport is the top-level JSON structure for a records export.
type RecordsExport struct {
	Source         string    `json:"source"`
	ExportedAt     time.Time `json:"exported_at"`
	Count          int       `json:"count"`
	AveragePercent float64   `json:"average_percent"`
	Records        []Record  `json:"records"`
}

// QuizHistoryExport is the JSON structure for the quiz history export.
type QuizHistoryExport struct {
	Played  int               `json:"played"`
	Levels  []DifficultyStats `json:"levels"`
	Results []QuizResult      `json:"results"`
}

// DifficultyStats aggregates the quizzes played at one difficulty.
type DifficultyStats struct {
	Difficulty        Difficulty `json:"difficulty"`
	Played            int        `json:"played"`
	AveragePercentage float64    `json:"average_percentage"`
	BestScore         int        `json:"best_score"`
	BestRank          string     `json:"best_rank"`
}
