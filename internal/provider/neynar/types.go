package neynar

import "github.com/castlens/castlens-go/internal/domain"

// Raw Neynar API shapes. Field names here follow the upstream wire format;
// toDomain maps them onto the stable internal types.

type channelRaw struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	CreatedAt     int64    `json:"created_at"`
	FollowerCount int      `json:"follower_count"`
	CastCount     *int     `json:"cast_count,omitempty"`
	Moderated     bool     `json:"moderated_by_default"`
	Lead          *userRaw `json:"lead,omitempty"`
	ModeratorFIDs []int64  `json:"moderator_fids,omitempty"`
}

type channelResponse struct {
	Channel channelRaw `json:"channel"`
}

type userRaw struct {
	FID         int64   `json:"fid"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	PfpURL      string  `json:"pfp_url"`
	FollowedAt  *string `json:"followed_at,omitempty"`
}

type castRaw struct {
	Hash       string  `json:"hash"`
	ThreadHash string  `json:"thread_hash"`
	ParentHash *string `json:"parent_hash"`
	Author     userRaw `json:"author"`
	Text       string  `json:"text"`
	Timestamp  string  `json:"timestamp"`
	Reactions  struct {
		LikesCount   int `json:"likes_count"`
		RecastsCount int `json:"recasts_count"`
	} `json:"reactions"`
	Replies struct {
		Count int `json:"count"`
	} `json:"replies"`
	Embeds []struct {
		URL string `json:"url"`
	} `json:"embeds"`
}

type nextRaw struct {
	Cursor *string `json:"cursor"`
}

func (n nextRaw) cursorValue() string {
	if n.Cursor == nil {
		return ""
	}
	return *n.Cursor
}

type feedResponse struct {
	Casts []castRaw `json:"casts"`
	Next  nextRaw   `json:"next"`
}

type followersResponse struct {
	Users []userRaw `json:"users"`
	Next  nextRaw   `json:"next"`
}

func (r *channelRaw) toDomain() *domain.Channel {
	channel := &domain.Channel{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		CreatedAt:     r.CreatedAt,
		FollowerCount: r.FollowerCount,
		CastCount:     r.CastCount,
		Moderated:     r.Moderated,
		ModeratorFIDs: r.ModeratorFIDs,
	}
	if r.Lead != nil {
		fid := r.Lead.FID
		channel.LeadFID = &fid
	}
	return channel
}

func (r *castRaw) toDomain() *domain.Cast {
	cast := &domain.Cast{
		Hash:       r.Hash,
		ThreadHash: r.ThreadHash,
		ParentHash: r.ParentHash,
		Author: domain.Author{
			FID:         r.Author.FID,
			Username:    r.Author.Username,
			DisplayName: r.Author.DisplayName,
			PfpURL:      r.Author.PfpURL,
		},
		Text:      r.Text,
		Timestamp: r.Timestamp,
		Reactions: domain.Reactions{
			Likes:   r.Reactions.LikesCount,
			Recasts: r.Reactions.RecastsCount,
		},
		Replies: domain.Replies{Count: r.Replies.Count},
		Embeds:  make([]domain.Embed, 0, len(r.Embeds)),
	}
	for _, e := range r.Embeds {
		cast.Embeds = append(cast.Embeds, domain.Embed{URL: e.URL})
	}
	return cast
}

func (r *userRaw) toDomain(channelID string) *domain.ParticipantEvent {
	event := &domain.ParticipantEvent{
		FID:       r.FID,
		ChannelID: channelID,
	}
	if r.FollowedAt != nil {
		event.FollowedAt = *r.FollowedAt
	}
	return event
}
