package domain

// Channel represents a Farcaster channel (a topic-scoped stream of casts).
// It is an immutable snapshot fetched once per analytics build.
type Channel struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"image_url"`
	CreatedAt     int64   `json:"created_at"` // unix seconds
	FollowerCount int     `json:"follower_count"`
	CastCount     *int    `json:"cast_count,omitempty"`
	Moderated     bool    `json:"moderated"`
	LeadFID       *int64  `json:"lead_fid,omitempty"`
	ModeratorFIDs []int64 `json:"moderator_fids,omitempty"`
}

func (c *Channel) HasImage() bool {
	if c == nil {
		return false
	}
	return c.ImageURL != ""
}

// IsModeratedBy checks whether the given fid leads or moderates the channel.
func (c *Channel) IsModeratedBy(fid int64) bool {
	if c == nil {
		return false
	}
	if c.LeadFID != nil && *c.LeadFID == fid {
		return true
	}
	for _, m := range c.ModeratorFIDs {
		if m == fid {
			return true
		}
	}
	return false
}
