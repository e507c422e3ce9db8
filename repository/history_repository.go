// file: repository/history_repository.go

package repository

import (
	"context"
	"database/sql"
	"vidtube-api/logger"
	"vidtube-api/model"
)

// IHistoryRepository defines the watch-history read contract.
type IHistoryRepository interface {
	GetWatchHistory(ctx context.Context, userID int) ([]*model.WatchHistoryEntry, error)
}

// HistoryRepository resolves the stored history list into denormalized
// video+owner rows.
type HistoryRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

// GetWatchHistory returns the user's history most-recent-first. Each entry
// carries the video and only the owner's public fields. An empty history
// yields an empty slice, not an error.
func (r *HistoryRepository) GetWatchHistory(ctx context.Context, userID int) ([]*model.WatchHistoryEntry, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to resolve watch history")

	query := `SELECT v.id, v.owner_id, v.title, v.thumbnail, v.duration, v.views, v.created_at,
	                 u.username, u.fullname, u.avatar
	          FROM watch_history wh
	          JOIN videos v ON v.id = wh.video_id
	          JOIN users u ON u.id = v.owner_id
	          WHERE wh.user_id = $1
	          ORDER BY wh.watched_at DESC, wh.id DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute watch history query")
		return nil, err
	}
	defer rows.Close()

	entries := []*model.WatchHistoryEntry{}
	for rows.Next() {
		entry := &model.WatchHistoryEntry{}
		if err := rows.Scan(
			&entry.Video.ID, &entry.Video.OwnerID, &entry.Video.Title,
			&entry.Video.Thumbnail, &entry.Video.Duration, &entry.Video.Views,
			&entry.Video.CreatedAt,
			&entry.Owner.Username, &entry.Owner.Fullname, &entry.Owner.Avatar,
		); err != nil {
			log.WithError(err).Error("Failed to scan watch history row")
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
