package neynar

import (
	"encoding/json"
	"testing"
)

func TestCastRawToDomain(t *testing.T) {
	payload := `{
		"casts": [
			{
				"hash": "0xabc",
				"thread_hash": "0xabc",
				"parent_hash": null,
				"author": {"fid": 7, "username": "alice", "display_name": "Alice", "pfp_url": "https://img/a.png"},
				"text": "gm https://example.com",
				"timestamp": "2023-06-01T12:00:00Z",
				"reactions": {"likes_count": 10, "recasts_count": 5},
				"replies": {"count": 2},
				"embeds": [{"url": "https://example.com/pic.png"}]
			}
		],
		"next": {"cursor": "abc123"}
	}`

	var raw feedResponse
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if raw.Next.cursorValue() != "abc123" {
		t.Errorf("cursor = %q, want abc123", raw.Next.cursorValue())
	}

	cast := raw.Casts[0].toDomain()
	if cast.Hash != "0xabc" {
		t.Errorf("Hash = %q", cast.Hash)
	}
	if cast.ParentHash != nil {
		t.Errorf("ParentHash = %v, want nil (root post)", *cast.ParentHash)
	}
	if cast.Author.Username != "alice" || cast.Author.FID != 7 {
		t.Errorf("author mapped wrong: %+v", cast.Author)
	}
	if cast.Reactions.Likes != 10 || cast.Reactions.Recasts != 5 || cast.Replies.Count != 2 {
		t.Errorf("counters mapped wrong: %+v %+v", cast.Reactions, cast.Replies)
	}
	if cast.EngagementScore() != 17 {
		t.Errorf("EngagementScore = %d, want 17", cast.EngagementScore())
	}
	if len(cast.Embeds) != 1 || cast.Embeds[0].URL != "https://example.com/pic.png" {
		t.Errorf("embeds mapped wrong: %+v", cast.Embeds)
	}
	if !cast.HasMedia() {
		t.Error("cast with embeds should be media")
	}
}

func TestNextCursorAbsentMeansDone(t *testing.T) {
	var raw feedResponse
	if err := json.Unmarshal([]byte(`{"casts": [], "next": {"cursor": null}}`), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if raw.Next.cursorValue() != "" {
		t.Errorf("cursor = %q, want empty", raw.Next.cursorValue())
	}
}

func TestChannelRawToDomain(t *testing.T) {
	payload := `{
		"channel": {
			"id": "degen",
			"name": "Degen",
			"description": "all things degen",
			"image_url": "https://img/degen.png",
			"created_at": 1685000000,
			"follower_count": 4200,
			"moderated_by_default": true,
			"lead": {"fid": 99, "username": "lead", "display_name": "Lead"},
			"moderator_fids": [99, 100]
		}
	}`

	var raw channelResponse
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	channel := raw.Channel.toDomain()
	if channel.ID != "degen" || channel.FollowerCount != 4200 {
		t.Errorf("channel mapped wrong: %+v", channel)
	}
	if !channel.Moderated {
		t.Error("Moderated should be true")
	}
	if channel.LeadFID == nil || *channel.LeadFID != 99 {
		t.Errorf("LeadFID mapped wrong: %v", channel.LeadFID)
	}
	if !channel.IsModeratedBy(100) {
		t.Error("fid 100 should moderate the channel")
	}
	if channel.IsModeratedBy(7) {
		t.Error("fid 7 should not moderate the channel")
	}
}

func TestFollowerRawToDomain(t *testing.T) {
	payload := `{
		"users": [
			{"fid": 1, "username": "u1", "followed_at": "2023-06-01T00:00:00Z"},
			{"fid": 2, "username": "u2"}
		],
		"next": {}
	}`

	var raw followersResponse
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	event := raw.Users[0].toDomain("degen")
	if event.FID != 1 || event.ChannelID != "degen" || event.FollowedAt != "2023-06-01T00:00:00Z" {
		t.Errorf("event mapped wrong: %+v", event)
	}

	missing := raw.Users[1].toDomain("degen")
	if missing.FollowedAt != "" {
		t.Errorf("FollowedAt = %q, want empty for absent field", missing.FollowedAt)
	}
}
