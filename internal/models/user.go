package models

import "time"

type Role int

const (
	RoleUser  Role = 1
	RoleAdmin Role = 2
)

type User struct {
	ID                int64      `json:"id" db:"id"`
	Email             *string    `json:"email" db:"email"`
	Phone             *string    `json:"phone" db:"phone"`
	Password          string     `json:"-" db:"password"`
	Name              string     `json:"name" db:"name"`
	Role              Role       `json:"role" db:"role"`
	Avatar            string     `json:"avatar" db:"avatar"`
	Address           string     `json:"address" db:"address"`
	IsLocked          bool       `json:"is_locked" db:"is_locked"`
	PasswordChangedAt *time.Time `json:"password_changed_at,omitempty" db:"password_changed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// ChangedPasswordAfter indique si le mot de passe a changé après l'émission du token.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt)
}
