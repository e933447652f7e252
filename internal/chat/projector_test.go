package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var threadBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testRequest(note string) requestInfo {
	return requestInfo{
		ID:              "req-1",
		RequesterID:     "seeker",
		ProviderID:      "provider",
		Status:          "pending",
		Note:            note,
		CreatedAt:       threadBase,
		CounterpartID:   "provider",
		CounterpartName: "bob",
	}
}

func TestThreadMessages_SynthesizesNote(t *testing.T) {
	req := testRequest("can you teach me?")

	entries := threadMessages("seeker", req, nil)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Synthetic)
	assert.Empty(t, entries[0].ID)
	assert.Equal(t, "seeker", entries[0].SenderID)
	assert.Equal(t, "can you teach me?", entries[0].Text)
	assert.Equal(t, threadBase.Format(time.RFC3339), entries[0].CreatedAt)
	assert.True(t, entries[0].Sent)

	// From the provider's side the same entry reads as received
	entries = threadMessages("provider", req, nil)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Sent)
}

func TestThreadMessages_NoNoteNoMessages(t *testing.T) {
	entries := threadMessages("seeker", testRequest("   "), nil)
	assert.Empty(t, entries)
}

func TestThreadMessages_OrdersByCreation(t *testing.T) {
	req := testRequest("hello")
	msgs := []Message{
		{ID: "m2", SenderID: "provider", Text: "sure", CreatedAt: threadBase.Add(2 * time.Minute)},
		{ID: "m1", SenderID: "seeker", Text: "hello", CreatedAt: threadBase},
		{ID: "m3", SenderID: "seeker", Text: "great", CreatedAt: threadBase.Add(5 * time.Minute)},
	}

	entries := threadMessages("seeker", req, msgs)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})

	// Stored messages suppress the synthetic note
	for _, e := range entries {
		assert.False(t, e.Synthetic)
	}

	assert.True(t, entries[0].Sent)
	assert.False(t, entries[1].Sent)
	assert.True(t, entries[2].Sent)
}

func TestBuildThread(t *testing.T) {
	req := testRequest("hello")
	msgs := []Message{
		{ID: "m1", SenderID: "seeker", Text: "hello", CreatedAt: threadBase},
		{ID: "m2", SenderID: "provider", Text: "sure, tomorrow?", CreatedAt: threadBase.Add(time.Hour)},
	}

	thread := buildThread("seeker", req, msgs)
	assert.Equal(t, "req-1", thread.RequestID)
	assert.Equal(t, "bob", thread.CounterpartName)
	assert.Equal(t, "B", thread.AvatarInitial)
	assert.Equal(t, "sure, tomorrow?", thread.LastMessage)
	assert.Equal(t, threadBase.Add(time.Hour).Format(time.RFC3339), thread.LastMessageTime)
	require.Len(t, thread.Messages, 2)
}

func TestBuildThread_EmptyThread(t *testing.T) {
	thread := buildThread("seeker", testRequest(""), nil)
	assert.Empty(t, thread.Messages)
	assert.Empty(t, thread.LastMessage)
	assert.Empty(t, thread.LastMessageTime)
}

func TestAvatarInitial(t *testing.T) {
	assert.Equal(t, "A", avatarInitial("alice"))
	assert.Equal(t, "B", avatarInitial("  bob "))
	assert.Equal(t, "É", avatarInitial("éric"))
	assert.Equal(t, "?", avatarInitial(""))
	assert.Equal(t, "?", avatarInitial("   "))
}
