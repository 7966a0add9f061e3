package models

import (
	"time"
)

// UserScore is the persisted click record for one Discord user.
// Username and AvatarURL are caches of the upstream Discord identity and may
// go stale; the reconciler corrects them against the live profile.
type UserScore struct {
	UserID    string    `db:"user_id"`
	Username  string    `db:"username"`
	AvatarURL string    `db:"avatar_url"`
	Counter   int64     `db:"counter"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
