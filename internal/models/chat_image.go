package models

import (
	"time"
)

type ChatImage struct {
	ID         int64
	Content    []byte
	SenderID   string
	ReceiverID string
	CreatedAt  time.Time
}
