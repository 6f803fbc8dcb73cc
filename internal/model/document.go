package model

import "time"

type Document struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	FileName       string    `json:"file_name"`
	FileType       string    `json:"file_type"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	StorageKey     string    `json:"storage_key"`
	SubscriptionID *string   `json:"subscription_id"`
	CreatedAt      time.Time `json:"created_at"`
}
