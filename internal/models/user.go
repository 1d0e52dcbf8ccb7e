package models

import "time"

type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // не отдаём наружу
	RoleID       int       `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
}
