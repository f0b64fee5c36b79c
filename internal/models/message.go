package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Sender identifies which side of the conversation authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage is one immutable turn in a project's conversation.
// Messages are append-only and ordered by CreatedAt ascending.
type ChatMessage struct {
	ID        surrealmodels.RecordID `json:"id"`
	Project   surrealmodels.RecordID `json:"project"`
	Sender    Sender                 `json:"sender"`
	Content   string                 `json:"content"`
	CreatedAt time.Time              `json:"created_at"`
}
