package domain

import "strings"

// Author identifies who published a cast.
type Author struct {
	FID         int64  `json:"fid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	PfpURL      string `json:"pfp_url,omitempty"`
}

// Reactions holds the per-cast reaction counters.
type Reactions struct {
	Likes   int `json:"likes"`
	Recasts int `json:"recasts"`
}

// Replies holds the reply counter for a cast.
type Replies struct {
	Count int `json:"count"`
}

// Embed references media or a link attached to a cast.
type Embed struct {
	URL string `json:"url"`
}

// Cast is an atomic post in a channel. Casts are immutable once fetched;
// reducers only read them. Timestamp carries the upstream's raw RFC 3339
// string so a bad value surfaces as a malformed-record failure during
// aggregation instead of being dropped at the adapter boundary.
type Cast struct {
	Hash       string    `json:"hash"`
	ThreadHash string    `json:"thread_hash,omitempty"`
	ParentHash *string   `json:"parent_hash,omitempty"` // nil means root post
	Author     Author    `json:"author"`
	Text       string    `json:"text"`
	Timestamp  string    `json:"timestamp"`
	Reactions  Reactions `json:"reactions"`
	Replies    Replies   `json:"replies"`
	Embeds     []Embed   `json:"embeds"`
}

// EngagementScore is likes + recasts + replies.
func (c *Cast) EngagementScore() int {
	if c == nil {
		return 0
	}
	return c.Reactions.Likes + c.Reactions.Recasts + c.Replies.Count
}

func (c *Cast) IsRoot() bool {
	if c == nil {
		return false
	}
	return c.ParentHash == nil
}

// HasMedia reports whether the cast carries embeds or an http(s) link in its
// body text.
func (c *Cast) HasMedia() bool {
	if c == nil {
		return false
	}
	if len(c.Embeds) > 0 {
		return true
	}
	return strings.Contains(c.Text, "http://") || strings.Contains(c.Text, "https://")
}
