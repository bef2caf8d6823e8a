package airstack

import (
	"encoding/json"
	"time"

	"github.com/castlens/castlens-go/internal/domain"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

const channelQuery = `
query ChannelInfo($channelId: String!) {
  FarcasterChannels(input: {blockchain: ALL, filter: {channelId: {_eq: $channelId}}, limit: 1}) {
    FarcasterChannel {
      channelId
      name
      description
      imageUrl
      createdAtTimestamp
      followerCount
      leadIds
      moderatorIds
    }
  }
}`

const castsQuery = `
query ChannelCasts($channelId: String!, $limit: Int!, $cursor: String) {
  FarcasterCasts(input: {blockchain: ALL, filter: {rootParentUrl: {_eq: $channelId}}, limit: $limit, cursor: $cursor}) {
    Cast {
      hash
      parentHash
      castedBy {
        fid: userId
        profileName
        profileDisplayName
        profileImage
      }
      text
      castedAtTimestamp
      numberOfLikes
      numberOfRecasts
      numberOfReplies
      embeds
    }
    pageInfo {
      nextCursor
    }
  }
}`

const participantsQuery = `
query ChannelParticipants($channelId: String!, $limit: Int!, $cursor: String) {
  FarcasterChannelParticipants(input: {filter: {channelId: {_eq: $channelId}, channelActions: {_eq: follow}}, blockchain: ALL, limit: $limit, cursor: $cursor}) {
    FarcasterChannelParticipant {
      fid: participantId
      lastActionTimestamp
      lastFollowedTimestamp
      lastCastedTimestamp
      lastRepliedTimestamp
    }
    pageInfo {
      nextCursor
    }
  }
}`

type pageInfoRaw struct {
	NextCursor string `json:"nextCursor"`
}

type channelRaw struct {
	ChannelID          string  `json:"channelId"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	ImageURL           string  `json:"imageUrl"`
	CreatedAtTimestamp string  `json:"createdAtTimestamp"`
	FollowerCount      int     `json:"followerCount"`
	LeadIDs            []int64 `json:"leadIds"`
	ModeratorIDs       []int64 `json:"moderatorIds"`
}

type channelData struct {
	FarcasterChannels struct {
		Channel []channelRaw `json:"FarcasterChannel"`
	} `json:"FarcasterChannels"`
}

type castRaw struct {
	Hash       string  `json:"hash"`
	ParentHash *string `json:"parentHash"`
	CastedBy   struct {
		FID                json.Number `json:"fid"`
		ProfileName        string      `json:"profileName"`
		ProfileDisplayName string      `json:"profileDisplayName"`
		ProfileImage       string      `json:"profileImage"`
	} `json:"castedBy"`
	Text              string   `json:"text"`
	CastedAtTimestamp string   `json:"castedAtTimestamp"`
	NumberOfLikes     int      `json:"numberOfLikes"`
	NumberOfRecasts   int      `json:"numberOfRecasts"`
	NumberOfReplies   int      `json:"numberOfReplies"`
	Embeds            []struct {
		URL string `json:"url"`
	} `json:"embeds"`
}

type castsData struct {
	FarcasterCasts struct {
		Cast     []castRaw   `json:"Cast"`
		PageInfo pageInfoRaw `json:"pageInfo"`
	} `json:"FarcasterCasts"`
}

type participantRaw struct {
	FID                   json.Number `json:"fid"`
	LastActionTimestamp   string      `json:"lastActionTimestamp"`
	LastFollowedTimestamp string      `json:"lastFollowedTimestamp"`
	LastCastedTimestamp   *string     `json:"lastCastedTimestamp"`
	LastRepliedTimestamp  *string     `json:"lastRepliedTimestamp"`
}

type participantsData struct {
	FarcasterChannelParticipants struct {
		Participant []participantRaw `json:"FarcasterChannelParticipant"`
		PageInfo    pageInfoRaw      `json:"pageInfo"`
	} `json:"FarcasterChannelParticipants"`
}

func (r *channelRaw) toDomain() *domain.Channel {
	channel := &domain.Channel{
		ID:            r.ChannelID,
		Name:          r.Name,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		FollowerCount: r.FollowerCount,
		Moderated:     len(r.ModeratorIDs) > 0,
		ModeratorFIDs: r.ModeratorIDs,
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedAtTimestamp); err == nil {
		channel.CreatedAt = t.Unix()
	}
	if len(r.LeadIDs) > 0 {
		lead := r.LeadIDs[0]
		channel.LeadFID = &lead
	}
	return channel
}

func (r *castRaw) toDomain() *domain.Cast {
	fid, _ := r.CastedBy.FID.Int64()
	cast := &domain.Cast{
		Hash:       r.Hash,
		ParentHash: r.ParentHash,
		Author: domain.Author{
			FID:         fid,
			Username:    r.CastedBy.ProfileName,
			DisplayName: r.CastedBy.ProfileDisplayName,
			PfpURL:      r.CastedBy.ProfileImage,
		},
		Text:      r.Text,
		Timestamp: r.CastedAtTimestamp,
		Reactions: domain.Reactions{
			Likes:   r.NumberOfLikes,
			Recasts: r.NumberOfRecasts,
		},
		Replies: domain.Replies{Count: r.NumberOfReplies},
		Embeds:  make([]domain.Embed, 0, len(r.Embeds)),
	}
	for _, e := range r.Embeds {
		cast.Embeds = append(cast.Embeds, domain.Embed{URL: e.URL})
	}
	return cast
}

func (r *participantRaw) toDomain(channelID string) *domain.ParticipantEvent {
	fid, _ := r.FID.Int64()
	return &domain.ParticipantEvent{
		FID:           fid,
		ChannelID:     channelID,
		FollowedAt:    r.LastFollowedTimestamp,
		LastCastAt:    r.LastCastedTimestamp,
		LastRepliedAt: r.LastRepliedTimestamp,
	}
}
