package auth

import "time"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleServer  Role = "SERVER"
)

// Rank orders roles ADMIN > MANAGER > SERVER. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleServer:
		return 1
	}
	return 0
}

func (r Role) Valid() bool { return r.Rank() > 0 }

// Allows reports whether a user holding have may act where need is required.
func Allows(have, need Role) bool {
	return have.Valid() && have.Rank() >= need.Rank()
}

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FullName     string `gorm:"size:255"`
	Role         Role   `gorm:"size:20;not null;default:SERVER"`
	EmployeeID   *uint  `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken stores only the sha256 of the opaque value handed to the client.
// Tokens issued from one login share a FamilyID.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	FamilyID  string    `gorm:"size:64;index"`
	Hash      string    `gorm:"size:64;uniqueIndex"`
	ExpiresAt time.Time `gorm:"index"`
	RevokedAt *time.Time
	CreatedAt time.Time
}
