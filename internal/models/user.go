package models

import "time"

// Role names assigned to seeded users. Any other non-empty role string is accepted.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time  `json:"-"`        // время создания
	UpdatedAt    *time.Time `json:"-"`        // время последнего обновления, nil до первого PUT
	Username     string     `json:"username"` // уникальный username
	PasswordHash string     `json:"password"` // bcrypt хеш пароля, никогда не plaintext
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	ID           int64      `json:"-"` // autoincrement, 0 для еще не сохраненной записи
}

// Principal is the authenticated identity attached to a single request.
// It is derived from a verified token plus a fresh store lookup and is never persisted.
type Principal struct {
	Subject string
	Role    string
}

// Claims is the decoded payload of an access token.
type Claims struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
	Subject   string
	Role      string
}
