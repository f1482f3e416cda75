package model

import (
	"time"

	"github.com/google/uuid"
)

// EngagementAction is a like or dislike toggle requested by a user.
type EngagementAction string

const (
	ActionLike    EngagementAction = "like"
	ActionDislike EngagementAction = "dislike"
)

// Valid reports whether a is a known engagement action.
func (a EngagementAction) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

// EngagementChoice is the durable record of a user's current choice on a
// product. At most one row exists per (user, product); the absence of a
// row means no choice.
type EngagementChoice struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Choice    EngagementAction
	UpdatedAt time.Time
}
