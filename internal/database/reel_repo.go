package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/reelcut/reelcut/internal/models"
)

var ErrReelNotFound = errors.New("reel not found")

type ReelRepository struct {
	db *DB
}

func NewReelRepository(db *DB) *ReelRepository {
	return &ReelRepository{db: db}
}

func (r *ReelRepository) InsertReel(reel *models.Reel) error {
	query := r.db.rebind(`
		INSERT INTO reels (id, user_email, source_name, reel_index, filename, segment_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.conn.Exec(query,
		reel.ID, reel.UserEmail, reel.SourceName, reel.ReelIndex,
		reel.Filename, reel.SegmentCount, reel.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reel: %w", err)
	}
	return nil
}

func (r *ReelRepository) GetReelByID(id string) (*models.Reel, error) {
	query := r.db.rebind(`
		SELECT id, user_email, source_name, reel_index, filename, segment_count, created_at
		FROM reels WHERE id = ?`)

	var reel models.Reel
	err := r.db.conn.QueryRow(query, id).Scan(
		&reel.ID, &reel.UserEmail, &reel.SourceName, &reel.ReelIndex,
		&reel.Filename, &reel.SegmentCount, &reel.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrReelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reel: %w", err)
	}
	return &reel, nil
}

// ListReelsByUser returns the user's reels, most recent first.
func (r *ReelRepository) ListReelsByUser(email string) ([]models.Reel, error) {
	query := r.db.rebind(`
		SELECT id, user_email, source_name, reel_index, filename, segment_count, created_at
		FROM reels WHERE user_email = ? ORDER BY created_at DESC, reel_index ASC`)

	rows, err := r.db.conn.Query(query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list reels: %w", err)
	}
	defer rows.Close()

	var reels []models.Reel
	for rows.Next() {
		var reel models.Reel
		if err := rows.Scan(
			&reel.ID, &reel.UserEmail, &reel.SourceName, &reel.ReelIndex,
			&reel.Filename, &reel.SegmentCount, &reel.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reel: %w", err)
		}
		reels = append(reels, reel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reels: %w", err)
	}
	return reels, nil
}

func (r *ReelRepository) DeleteReel(id string) error {
	query := r.db.rebind(`DELETE FROM reels WHERE id = ?`)

	res, err := r.db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete reel: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrReelNotFound
	}
	return nil
}
