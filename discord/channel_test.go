package discord

import (
	"testing"

	"github.com/nixenne/accord/utils/json"
)

func TestChannelUnmarshal(t *testing.T) {
	payload := []byte(`{
		"id": "1122",
		"type": 0,
		"guild_id": "3344",
		"name": "general",
		"position": 2,
		"parent_id": "5566"
	}`)

	var ch Channel
	if err := json.Unmarshal(payload, &ch); err != nil {
		t.Fatal("failed to unmarshal channel:", err)
	}

	if ch.ID != 1122 {
		t.Fatal("unexpected channel ID:", ch.ID)
	}
	if ch.GuildID != 3344 {
		t.Fatal("unexpected guild ID:", ch.GuildID)
	}
	if ch.Type != GuildText {
		t.Fatal("unexpected channel type:", ch.Type)
	}
	if ch.CategoryID != 5566 {
		t.Fatal("unexpected category ID:", ch.CategoryID)
	}
}
