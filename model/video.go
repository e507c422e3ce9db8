package model

import "time"

type Video struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"ownerId"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	Duration  int       `json:"duration"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
}

// WatchHistoryEntry is one resolved history row: the video plus its owner's
// public fields, in the order the user watched them (most recent first).
type WatchHistoryEntry struct {
	Video Video         `json:"video"`
	Owner PublicProfile `json:"owner"`
}
