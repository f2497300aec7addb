package models

import "time"

type Message struct {
	ID            int64          `json:"id" db:"id"`
	GroupID       *int64         `json:"group_id,omitempty" db:"group_id"` // nil for personal notes
	AuthorID      int64          `json:"author_id" db:"author_id"`
	Message       *string        `json:"message,omitempty" db:"message"`
	AttachmentURL *string        `json:"attachment_url,omitempty" db:"attachment_url"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	Author        *MessageAuthor `json:"author,omitempty"`
}

// MessageAuthor is the public slice of a user profile joined onto board
// listings.
type MessageAuthor struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type PostMessageRequest struct {
	Message       *string `json:"message,omitempty" validate:"omitempty,max=10000"`
	AttachmentURL *string `json:"attachment_url,omitempty" validate:"omitempty,url"`
}
