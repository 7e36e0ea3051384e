package domain

import "time"

type User struct {
	ID            string // uuid
	Email         string
	PasswordHash  string // argon2id PHC string, or bcrypt for imported accounts
	Firstname     string
	Lastname      string
	Pseudo        string
	IsElectricCar bool

	// ResetCode and ResetCodeExpiresAt are set and cleared together.
	ResetCode          *string
	ResetCodeExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPendingReset reports whether a reset code is on record, expired or not.
func (u User) HasPendingReset() bool {
	return u.ResetCode != nil && u.ResetCodeExpiresAt != nil
}

// ResetCodeValidAt reports whether the pending reset code is still usable at
// now. A code is dead from its expiry instant onwards.
func (u User) ResetCodeValidAt(now time.Time) bool {
	return u.HasPendingReset() && now.Before(*u.ResetCodeExpiresAt)
}
