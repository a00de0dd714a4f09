package models

import "time"

// Message is a single role-tagged entry in a chat transcript.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// Chat is one conversation thread: a title and an ordered transcript.
type Chat struct {
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatCollection holds all of a user's chats keyed by chat ID. It is
// persisted as a single JSONB document and replaced wholesale on save;
// outer key order is not preserved by the store.
type ChatCollection map[string]Chat
