package models

import (
	"time"
)

type Group struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

type PrivateChat struct {
	ID        string
	UserID1   string
	UserID2   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *PrivateChat) HasParticipant(userID string) bool {
	return c.UserID1 == userID || c.UserID2 == userID
}

// ChatMessage belongs to exactly one destination: GroupID or PrivateChatID.
type ChatMessage struct {
	ID            string
	Content       string
	SenderID      string
	Timestamp     time.Time
	GroupID       *string
	PrivateChatID *string
	ReadAt        *time.Time
}
