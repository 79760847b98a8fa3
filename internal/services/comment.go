package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gigcity/internal/domain"
)

type commentService struct {
	eventRepo   domain.EventRepository
	commentRepo domain.CommentRepository
	userRepo    domain.UserRepository
}

// NewCommentService creates a CommentService with the given repositories.
func NewCommentService(eventRepo domain.EventRepository, commentRepo domain.CommentRepository, userRepo domain.UserRepository) domain.CommentService {
	return &commentService{
		eventRepo:   eventRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

func (s *commentService) Add(ctx context.Context, eventID, userID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	comment := domain.NewComment(eventID, userID, user.Name, body, time.Now())
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) List(ctx context.Context, eventID string) ([]*domain.Comment, error) {
	comments, err := s.commentRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *commentService) Delete(ctx context.Context, eventID, commentID, requesterID string) error {
	return s.commentRepo.DeleteByAuthor(ctx, eventID, commentID, requesterID)
}
