package history

import (
	"context"
	"time"
)

// TurnRecord stores one side of a routed exchange: the user's command or the
// assistant's spoken reply.
type TurnRecord struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Role      string    `json:"role"`
	Handler   string    `json:"handler,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists and retrieves the command/response history.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	Recent(ctx context.Context, limit int) ([]TurnRecord, error)
	Close() error
}
