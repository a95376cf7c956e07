package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a locally-registered back-office account. Credentials are stored as
// given; hardening auth is out of scope for this deployment.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:140" json:"name"`
	Email     string    `gorm:"size:140;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:140" json:"-"`
	CreatedAt time.Time `json:"-"`
}
