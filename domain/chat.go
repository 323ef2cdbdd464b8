package domain

import "time"

// ChatMessage ids are wall-clock derived and strictly increasing within a
// room, which is all the ordering the chat panel needs.
type ChatMessage struct {
	Id        int64     `json:"id"`
	UserId    string    `json:"userId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
