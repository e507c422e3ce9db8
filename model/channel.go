package model

// ChannelProfile is the aggregated public view of a channel. The three
// relationship fields are derived from one consistent snapshot of the
// subscriptions table.
type ChannelProfile struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	Fullname        string `json:"fullname"`
	Email           string `json:"email"`
	Avatar          string `json:"avatar"`
	CoverImage      string `json:"coverImage,omitempty"`
	SubscriberCount int    `json:"subscriberCount"`
	SubscribedTo    int    `json:"channelsSubscribedToCount"`
	IsSubscribed    bool   `json:"isSubscribed"`
}

// ChannelStats is the raw aggregation result produced by the subscription
// repository.
type ChannelStats struct {
	SubscriberCount int
	SubscribedTo    int
	IsSubscribed    bool
}

// TokenPair is what login and refresh hand back to the transport layer.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
