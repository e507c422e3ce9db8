package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"vidtube-api/model"
	"vidtube-api/repository"
)

// ErrChannelNotFound means no account matches the requested handle.
var ErrChannelNotFound = errors.New("channel not found")

// ChannelService is the read-only aggregation layer over the social graph:
// channel profiles with subscriber counts and denormalized watch history.
type ChannelService struct {
	userRepo    repository.IUserRepository
	subRepo     repository.ISubscriptionRepository
	historyRepo repository.IHistoryRepository
}

func NewChannelService(userRepo repository.IUserRepository, subRepo repository.ISubscriptionRepository, historyRepo repository.IHistoryRepository) *ChannelService {
	return &ChannelService{
		userRepo:    userRepo,
		subRepo:     subRepo,
		historyRepo: historyRepo,
	}
}

// GetChannelProfile resolves a handle to the channel's public profile plus
// its relationship aggregates. The counts and the caller's membership come
// from a single snapshot of the subscriptions table.
func (s *ChannelService) GetChannelProfile(ctx context.Context, handle string, callerID int) (*model.ChannelProfile, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, strings.ToLower(handle))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	stats, err := s.subRepo.GetChannelStats(ctx, user.ID, callerID)
	if err != nil {
		return nil, err
	}

	return &model.ChannelProfile{
		ID:              user.ID,
		Username:        user.Username,
		Fullname:        user.Fullname,
		Email:           user.Email,
		Avatar:          user.Avatar,
		CoverImage:      user.CoverImage,
		SubscriberCount: stats.SubscriberCount,
		SubscribedTo:    stats.SubscribedTo,
		IsSubscribed:    stats.IsSubscribed,
	}, nil
}

// GetWatchHistory returns the caller's history, most recent first. Empty
// history is an empty slice.
func (s *ChannelService) GetWatchHistory(ctx context.Context, userID int) ([]*model.WatchHistoryEntry, error) {
	return s.historyRepo.GetWatchHistory(ctx, userID)
}
