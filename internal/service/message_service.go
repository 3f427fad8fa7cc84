package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

type messageStore interface {
	Messages() repository.Collection[models.Message]
	Students() repository.Collection[models.User]
}

// MessageService handles the teacher and student inbox.
type MessageService struct {
	store     messageStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewMessageService constructs the messaging service.
func NewMessageService(store messageStore, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{store: store, validator: validate, logger: logger, now: time.Now}
}

// Send appends an unread message from the actor.
func (s *MessageService) Send(ctx context.Context, actor models.Actor, req models.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message content is required")
	}

	receiverID := repository.TeacherID
	if actor.IsTeacher() {
		if req.ReceiverID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "receiverId is required")
		}
		students, err := s.store.Students().Get(ctx)
		if err != nil {
			return nil, storageFailure(err, "failed to load roster")
		}
		if _, ok := findStudent(students, req.ReceiverID); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		receiverID = req.ReceiverID
	} else if req.ReceiverID != "" && req.ReceiverID != repository.TeacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only message the teacher")
	}

	msg := models.Message{
		ID:         repository.NewID("msg"),
		SenderID:   actor.ID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  repository.DisplayTime(s.now()),
		IsRead:     false,
	}
	if _, err := s.store.Messages().Update(ctx, func(messages []models.Message) ([]models.Message, error) {
		return append(messages, msg), nil
	}); err != nil {
		return nil, storageFailure(err, "failed to send message")
	}
	return &msg, nil
}

// Conversation returns the exchange between the actor and otherID in send order.
func (s *MessageService) Conversation(ctx context.Context, actor models.Actor, otherID string) ([]models.Message, error) {
	if !actor.IsTeacher() && otherID != repository.TeacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only read their conversation with the teacher")
	}
	messages, err := s.store.Messages().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load messages")
	}
	return ConversationBetween(messages, actor.ID, otherID), nil
}

// Inbox gives the teacher one thread per roster student and a student every message they
// sent or received.
func (s *MessageService) Inbox(ctx context.Context, actor models.Actor) (*models.Inbox, error) {
	messages, err := s.store.Messages().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load messages")
	}
	inbox := &models.Inbox{UnreadCount: UnreadCount(messages, actor.ID)}

	if !actor.IsTeacher() {
		own := make([]models.Message, 0)
		for _, m := range messages {
			if m.SenderID == actor.ID || m.ReceiverID == actor.ID {
				own = append(own, m)
			}
		}
		inbox.Messages = own
		return inbox, nil
	}

	students, err := s.store.Students().Get(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load roster")
	}
	inbox.Threads = make([]models.ThreadSummary, 0, len(students))
	for _, student := range students {
		thread := ConversationBetween(messages, actor.ID, student.ID)
		summary := models.ThreadSummary{Student: student}
		if len(thread) > 0 {
			last := thread[len(thread)-1]
			summary.LastMessage = &last
		}
		for _, m := range thread {
			if m.ReceiverID == actor.ID && !m.IsRead {
				summary.UnreadCount++
			}
		}
		inbox.Threads = append(inbox.Threads, summary)
	}
	return inbox, nil
}

// MarkRead flags every message from otherID to the actor as read and returns how many changed.
func (s *MessageService) MarkRead(ctx context.Context, actor models.Actor, otherID string) (int, error) {
	changed := 0
	_, err := s.store.Messages().Update(ctx, func(messages []models.Message) ([]models.Message, error) {
		for i := range messages {
			if messages[i].SenderID == otherID && messages[i].ReceiverID == actor.ID && !messages[i].IsRead {
				messages[i].IsRead = true
				changed++
			}
		}
		return messages, nil
	})
	if err != nil {
		return 0, storageFailure(err, "failed to update messages")
	}
	return changed, nil
}

// ConversationBetween is symmetric in a and b.
func ConversationBetween(messages []models.Message, a, b string) []models.Message {
	result := make([]models.Message, 0)
	for _, m := range messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			result = append(result, m)
		}
	}
	return result
}

// UnreadCount counts unread messages addressed to userID.
func UnreadCount(messages []models.Message, userID string) int {
	count := 0
	for _, m := range messages {
		if m.ReceiverID == userID && !m.IsRead {
			count++
		}
	}
	return count
}
