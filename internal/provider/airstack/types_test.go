package airstack

import (
	"encoding/json"
	"testing"
)

func TestCastDataMapping(t *testing.T) {
	payload := `{
		"FarcasterCasts": {
			"Cast": [
				{
					"hash": "0xfeed",
					"parentHash": "0xroot",
					"castedBy": {"fid": "42", "profileName": "bob", "profileDisplayName": "Bob", "profileImage": "https://img/b.png"},
					"text": "hello",
					"castedAtTimestamp": "2023-06-01T10:00:00Z",
					"numberOfLikes": 3,
					"numberOfRecasts": 1,
					"numberOfReplies": 2,
					"embeds": []
				}
			],
			"pageInfo": {"nextCursor": "c2"}
		}
	}`

	var data castsData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if data.FarcasterCasts.PageInfo.NextCursor != "c2" {
		t.Errorf("cursor = %q, want c2", data.FarcasterCasts.PageInfo.NextCursor)
	}

	cast := data.FarcasterCasts.Cast[0].toDomain()
	if cast.Author.FID != 42 || cast.Author.Username != "bob" {
		t.Errorf("author mapped wrong: %+v", cast.Author)
	}
	if cast.ParentHash == nil || *cast.ParentHash != "0xroot" {
		t.Errorf("ParentHash mapped wrong: %v", cast.ParentHash)
	}
	if cast.EngagementScore() != 6 {
		t.Errorf("EngagementScore = %d, want 6", cast.EngagementScore())
	}
	if cast.HasMedia() {
		t.Error("plain text cast should not be media")
	}
}

func TestChannelDataMapping(t *testing.T) {
	payload := `{
		"FarcasterChannels": {
			"FarcasterChannel": [
				{
					"channelId": "degen",
					"name": "Degen",
					"description": "d",
					"imageUrl": "https://img/d.png",
					"createdAtTimestamp": "2023-05-01T00:00:00Z",
					"followerCount": 7,
					"leadIds": [9],
					"moderatorIds": [9, 10]
				}
			]
		}
	}`

	var data channelData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	channel := data.FarcasterChannels.Channel[0].toDomain()
	if channel.ID != "degen" || channel.FollowerCount != 7 {
		t.Errorf("channel mapped wrong: %+v", channel)
	}
	if channel.LeadFID == nil || *channel.LeadFID != 9 {
		t.Errorf("LeadFID mapped wrong: %v", channel.LeadFID)
	}
	if !channel.Moderated {
		t.Error("channel with moderators should be flagged moderated")
	}
	if channel.CreatedAt == 0 {
		t.Error("CreatedAt not derived from createdAtTimestamp")
	}
}

func TestGraphQLErrorEnvelope(t *testing.T) {
	payload := `{"data": null, "errors": [{"message": "rate limited"}]}`

	var envelope graphQLResponse
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(envelope.Errors) != 1 || envelope.Errors[0].Message != "rate limited" {
		t.Errorf("errors mapped wrong: %+v", envelope.Errors)
	}
}
