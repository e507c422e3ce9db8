// file: repository/subscription_repository.go

package repository

import (
	"context"
	"database/sql"
	"vidtube-api/logger"
	"vidtube-api/model"

	"github.com/sirupsen/logrus"
)

// ISubscriptionRepository defines the read-only aggregation contract over
// subscription edges.
type ISubscriptionRepository interface {
	GetChannelStats(ctx context.Context, channelID, callerID int) (*model.ChannelStats, error)
}

// SubscriptionRepository implements ISubscriptionRepository. Each
// aggregation is a named query; GetChannelStats composes them inside one
// repeatable-read transaction so the counts and the membership flag come
// from the same snapshot.
type SubscriptionRepository struct {
	DB *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

// GetChannelStats returns the subscriber count, subscribed-to count and the
// caller's membership for a channel. A callerID of zero means there is no
// authenticated caller; IsSubscribed is then false without a lookup.
func (r *SubscriptionRepository) GetChannelStats(ctx context.Context, channelID, callerID int) (*model.ChannelStats, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"channel_id": channelID,
		"caller_id":  callerID,
	})
	log.Info("Executing channel aggregation queries")

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		log.WithError(err).Error("Failed to begin aggregation transaction")
		return nil, err
	}
	defer tx.Rollback()

	stats := &model.ChannelStats{}

	stats.SubscriberCount, err = countSubscribers(ctx, tx, channelID)
	if err != nil {
		log.WithError(err).Error("Failed to count subscribers")
		return nil, err
	}

	stats.SubscribedTo, err = countSubscriptions(ctx, tx, channelID)
	if err != nil {
		log.WithError(err).Error("Failed to count subscriptions")
		return nil, err
	}

	if callerID > 0 {
		stats.IsSubscribed, err = isSubscribed(ctx, tx, channelID, callerID)
		if err != nil {
			log.WithError(err).Error("Failed to check subscription membership")
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.WithError(err).Error("Failed to commit aggregation transaction")
		return nil, err
	}
	return stats, nil
}

// countSubscribers counts incoming edges. Duplicate edges may exist in
// storage, so the count is over distinct subscriber ids.
func countSubscribers(ctx context.Context, tx *sql.Tx, channelID int) (int, error) {
	var n int
	query := `SELECT COUNT(DISTINCT subscriber_id) FROM subscriptions WHERE channel_id = $1`
	err := tx.QueryRowContext(ctx, query, channelID).Scan(&n)
	return n, err
}

// countSubscriptions counts outgoing edges, distinct by channel.
func countSubscriptions(ctx context.Context, tx *sql.Tx, subscriberID int) (int, error) {
	var n int
	query := `SELECT COUNT(DISTINCT channel_id) FROM subscriptions WHERE subscriber_id = $1`
	err := tx.QueryRowContext(ctx, query, subscriberID).Scan(&n)
	return n, err
}

func isSubscribed(ctx context.Context, tx *sql.Tx, channelID, callerID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE channel_id = $1 AND subscriber_id = $2)`
	err := tx.QueryRowContext(ctx, query, channelID, callerID).Scan(&exists)
	return exists, err
}
