package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/internal/models"
)

func receive(t *testing.T, c *Client) (models.Notification, bool) {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			return models.Notification{}, false
		}
		var n models.Notification
		require.NoError(t, json.Unmarshal(data, &n))
		return n, true
	case <-time.After(time.Second):
		return models.Notification{}, false
	}
}

func nothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_TargetedAndBroadcast(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	alice := &Client{hub: h, userID: "alice", send: make(chan []byte, 4)}
	bob := &Client{hub: h, userID: "bob", send: make(chan []byte, 4)}
	h.register <- alice
	h.register <- bob

	h.Publish(models.Notification{Kind: models.NotifyLevelUp, UserID: "alice", Title: "Level 2"})
	n, ok := receive(t, alice)
	require.True(t, ok)
	assert.Equal(t, models.NotifyLevelUp, n.Kind)
	nothing(t, bob)

	h.Publish(models.Notification{Kind: models.NotifyNewPost, Title: "feed"})
	for _, c := range []*Client{alice, bob} {
		n, ok := receive(t, c)
		require.True(t, ok)
		assert.Equal(t, models.NotifyNewPost, n.Kind)
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	slow := &Client{hub: h, userID: "u", send: make(chan []byte, 1)}
	slow.send <- []byte("backlog")
	h.register <- slow

	h.Publish(models.Notification{Kind: models.NotifyStreak, UserID: "u"})
	time.Sleep(100 * time.Millisecond)

	require.Equal(t, []byte("backlog"), <-slow.send)
	select {
	case _, ok := <-slow.send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("slow client was not dropped")
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	h := NewHub(nil) // not running
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer*2; i++ {
			h.Publish(models.Notification{Kind: models.NotifyNewPost})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
}
