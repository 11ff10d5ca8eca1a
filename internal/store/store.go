package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pavelanni/portfolio/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quiz_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		difficulty TEXT NOT NULL,
		score INTEGER NOT NULL,
		max_score INTEGER NOT NULL,
		percentage REAL NOT NULL,
		rank TEXT NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS app_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertQuizResult stores a finished quiz. A zero FinishedAt is set to now.
func (s *Store) InsertQuizResult(r model.QuizResult) (int64, error) {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO quiz_results (difficulty, score, max_score, percentage, rank, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Difficulty, r.Score, r.MaxScore, r.Percentage, r.Rank, r.FinishedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListQuizResults returns results newest first. Limit <= 0 returns all.
// An empty difficulty means no filtering.
func (s *Store) ListQuizResults(difficulty model.Difficulty, limit int) ([]model.QuizResult, error) {
	query := `SELECT id, difficulty, score, max_score, percentage, rank, finished_at FROM quiz_results WHERE 1=1`
	var args []any
	if difficulty != "" {
		query += ` AND difficulty = ?`
		args = append(args, difficulty)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.QuizResult
	for rows.Next() {
		var r model.QuizResult
		if err := rows.Scan(&r.ID, &r.Difficulty, &r.Score, &r.MaxScore, &r.Percentage, &r.Rank, &r.FinishedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// BestQuizResult returns the highest-scoring result for a difficulty, or nil if none.
func (s *Store) BestQuizResult(difficulty model.Difficulty) (*model.QuizResult, error) {
	var r model.QuizResult
	err := s.db.QueryRow(
		`SELECT id, difficulty, score, max_score, percentage, rank, finished_at
		 FROM quiz_results WHERE difficulty = ? ORDER BY score DESC, id ASC LIMIT 1`, difficulty,
	).Scan(&r.ID, &r.Difficulty, &r.Score, &r.MaxScore, &r.Percentage, &r.Rank, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// QuizResultCount returns the number of stored results.
func (s *Store) QuizResultCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM quiz_results`).Scan(&count)
	return count, err
}
