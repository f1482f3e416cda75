package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the owner reference behind Product.CreatedBy. The catalog only
// ever projects the username for display; authorization comes from the
// verified token, not from this record.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	IsAdmin   bool
	UpdatedAt time.Time
	CreatedAt time.Time
}

func (u *User) InitMeta() {
	u.ID = uuid.New()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
}
