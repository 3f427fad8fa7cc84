package models

// Message is one entry in a two-party conversation.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
	IsRead     bool   `json:"isRead"`
}

// SendMessageRequest is the payload for sending a message. Students always write to the teacher.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content" validate:"required"`
}

// ThreadSummary describes the teacher's conversation with one student.
type ThreadSummary struct {
	Student     User     `json:"student"`
	LastMessage *Message `json:"lastMessage,omitempty"`
	UnreadCount int      `json:"unreadCount"`
}

// Inbox is the messaging overview for the caller.
type Inbox struct {
	Threads     []ThreadSummary `json:"threads,omitempty"`
	Messages    []Message       `json:"messages,omitempty"`
	UnreadCount int             `json:"unreadCount"`
}
