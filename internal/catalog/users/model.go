package users

import "time"

// User mirrors one users row. PasswordHash never leaves the package.
type User struct {
	UserID       int64
	FullName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

func (u User) toDTO() UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
