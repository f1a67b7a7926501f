package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPostCreated   EventType = "post_created"
	EventCommentAdded  EventType = "comment_added"
	EventPostLiked     EventType = "post_liked"
	EventPostFavorited EventType = "post_favorited"
)

// Event represents an activity event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	PostID    int64     `json:"post_id"`
	ActorID   int64     `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, postID, actorID int64, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		PostID:    postID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Published bool   `json:"published"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID      int64  `json:"comment_id"`
	ParentID       *int64 `json:"parent_id,omitempty"`
	ContentPreview string `json:"content_preview"`
}

// PostLikedPayload payload.
type PostLikedPayload struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}
