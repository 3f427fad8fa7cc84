package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

func TestMessageExchange(t *testing.T) {
	ctx := context.Background()
	svc := NewMessageService(newGateway(t), nil, nil)
	svc.now = fixedClock(2023, 10, 15)

	first, err := svc.Send(ctx, student, models.SendMessageRequest{Content: "  Sir, is there class tomorrow?  "})
	require.NoError(t, err)
	assert.Equal(t, repository.TeacherID, first.ReceiverID)
	assert.Equal(t, "Sir, is there class tomorrow?", first.Content)
	assert.Equal(t, "04:30 PM", first.Timestamp)
	assert.False(t, first.IsRead)

	_, err = svc.Send(ctx, teacher, models.SendMessageRequest{ReceiverID: "s1", Content: "Yes, at 4."})
	require.NoError(t, err)
	_, err = svc.Send(ctx, other, models.SendMessageRequest{Content: "Fees paid."})
	require.NoError(t, err)

	fromStudent, err := svc.Conversation(ctx, student, repository.TeacherID)
	require.NoError(t, err)
	fromTeacher, err := svc.Conversation(ctx, teacher, "s1")
	require.NoError(t, err)
	assert.Equal(t, fromStudent, fromTeacher)
	require.Len(t, fromTeacher, 2)
	assert.Equal(t, "s1", fromTeacher[0].SenderID)

	inbox, err := svc.Inbox(ctx, teacher)
	require.NoError(t, err)
	assert.Equal(t, 2, inbox.UnreadCount)
	require.Len(t, inbox.Threads, 3)
	assert.Equal(t, 1, inbox.Threads[0].UnreadCount)
	require.NotNil(t, inbox.Threads[0].LastMessage)
	assert.Equal(t, "Yes, at 4.", inbox.Threads[0].LastMessage.Content)
	assert.Nil(t, inbox.Threads[2].LastMessage)

	changed, err := svc.MarkRead(ctx, teacher, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	inbox, err = svc.Inbox(ctx, teacher)
	require.NoError(t, err)
	assert.Equal(t, 1, inbox.UnreadCount)

	own, err := svc.Inbox(ctx, student)
	require.NoError(t, err)
	assert.Len(t, own.Messages, 2)
	assert.Equal(t, 1, own.UnreadCount)
}

func TestSendMessageRules(t *testing.T) {
	ctx := context.Background()
	svc := NewMessageService(newGateway(t), nil, nil)

	_, err := svc.Send(ctx, student, models.SendMessageRequest{Content: "   "})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Send(ctx, student, models.SendMessageRequest{ReceiverID: "s2", Content: "hi"})
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Send(ctx, teacher, models.SendMessageRequest{Content: "hi"})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Send(ctx, teacher, models.SendMessageRequest{ReceiverID: "s9", Content: "hi"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Conversation(ctx, student, "s2")
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestUnreadCountOnlyCountsReceiver(t *testing.T) {
	messages := []models.Message{
		{SenderID: "s1", ReceiverID: "t1"},
		{SenderID: "s2", ReceiverID: "t1", IsRead: true},
		{SenderID: "t1", ReceiverID: "s1"},
	}
	assert.Equal(t, 1, UnreadCount(messages, "t1"))
	assert.Equal(t, 1, UnreadCount(messages, "s1"))
	assert.Equal(t, 0, UnreadCount(messages, "s2"))
	assert.Len(t, ConversationBetween(messages, "t1", "s1"), 2)
	assert.Len(t, ConversationBetween(messages, "s1", "t1"), 2)
}
