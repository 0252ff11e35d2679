package models

import "time"

// InviteToken is a time-boxed, single-use registration token that
// pre-assigns a role to a future user. Tokens are never deleted;
// redeemed and expired ones remain as an audit trail.
type InviteToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"token"`
	Role      Role      `gorm:"size:20;not null;default:'viewer'" json:"role"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
}

// Redeemable reports whether the token can still be consumed at the
// given instant: unused and strictly before its expiry.
func (t *InviteToken) Redeemable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
