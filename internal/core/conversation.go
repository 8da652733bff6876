package core

import (
	"context"
	"time"
)

// Turn is one answered question within a session.
type Turn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationRepository interface {
	AddTurn(ctx context.Context, sessionID string, turn Turn) error
	GetTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
