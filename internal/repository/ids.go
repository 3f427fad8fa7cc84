package repository

import (
	"time"

	"github.com/google/uuid"
)

// NewID mints a record id. UUIDv7 embeds the creation time, so ids sort by creation.
func NewID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "-" + id.String()
}

// DisplayTime renders the message timestamp shown in conversations.
func DisplayTime(t time.Time) string {
	return t.Format("03:04 PM")
}
