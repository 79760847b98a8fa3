package domain

import (
	"context"
	"time"
)

// Comment belongs to an event and a user. Only its author may delete it.
// swagger:model Comment
type Comment struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment returns a new Comment. ID is typically set by the repository on create.
func NewComment(eventID, userID, userName, body string, createdAt time.Time) *Comment {
	return &Comment{
		EventID:   eventID,
		UserID:    userID,
		UserName:  userName,
		Body:      body,
		CreatedAt: createdAt,
	}
}

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	ListByEventID(ctx context.Context, eventID string) ([]*Comment, error)
	// DeleteByAuthor removes the comment only if userID authored it.
	// Returns ErrForbidden when the comment exists but belongs to another
	// user, ErrNotFound when it does not exist.
	DeleteByAuthor(ctx context.Context, eventID, commentID, userID string) error
}

// CommentService defines comment operations.
type CommentService interface {
	Add(ctx context.Context, eventID, userID, body string) (*Comment, error)
	List(ctx context.Context, eventID string) ([]*Comment, error)
	Delete(ctx context.Context, eventID, commentID, requesterID string) error
}
