package models

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// User is a terminal/admin login. PasswordHash is a hex SHA-256 digest.
// Admins additionally carry a short PIN checked at login.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"unique;not null" json:"username"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         Role       `gorm:"type:VARCHAR(20);default:'admin'" json:"role"`
	Site         string     `json:"site,omitempty"`
	PIN          string     `json:"-"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	LastLogout   *time.Time `json:"lastLogout,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ActivityLog records login/logout events for the admin activity feed.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"index" json:"username"`
	Role      Role      `json:"role"`
	Action    string    `json:"action"` // "login" | "logout"
	CreatedAt time.Time `json:"createdAt"`
}
