package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string

	d.Subscribe(EventPostLiked, func(_ context.Context, e Event) error {
		seen = append(seen, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventPostLiked, func(_ context.Context, e Event) error {
		seen = append(seen, "second")
		return nil
	})
	d.Subscribe(EventPostCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "other")
		return nil
	})

	err := d.Publish(context.Background(), New(EventPostLiked, 1, 2, PostLikedPayload{Liked: true, LikesCount: 1}))
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestNewStampsIdentity(t *testing.T) {
	a := New(EventPostCreated, 3, 4, nil)
	b := New(EventPostCreated, 3, 4, nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, int64(3), a.PostID)
	assert.Equal(t, int64(4), a.ActorID)
	assert.False(t, a.Timestamp.IsZero())
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), New(EventCommentAdded, 1, 1, nil)))
}
