package store

import (
	"database/sql"

	"github.com/pavelanni/portfolio/internal/model"
)

const keyLastDifficulty = "last_difficulty"

// SetMetadata upserts a key-value pair in the app_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO app_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetLastDifficulty remembers the difficulty most recently played.
func (s *Store) SetLastDifficulty(d model.Difficulty) error {
	return s.SetMetadata(keyLastDifficulty, string(d))
}

// LastDifficulty returns the difficulty most recently played, or "" if none.
func (s *Store) LastDifficulty() (model.Difficulty, error) {
	v, err := s.GetMetadata(keyLastDifficulty)
	return model.Difficulty(v), err
}
