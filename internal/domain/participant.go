package domain

// ParticipantEvent records a user's follow action against a channel. The
// upstream does not guarantee ordering; the growth-trend reducer orders
// events by FollowedAt before accumulating.
type ParticipantEvent struct {
	FID           int64   `json:"fid"`
	ChannelID     string  `json:"channel_id"`
	FollowedAt    string  `json:"followed_at"`
	LastCastAt    *string `json:"last_cast_at,omitempty"`
	LastRepliedAt *string `json:"last_replied_at,omitempty"`
}
