package users

import (
	"fmt"
	"strings"
	"time"
)

// User owns portfolios. Authentication is handled outside this service.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate validates user data
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("invalid email: %s", u.Email)
	}

	if strings.TrimSpace(u.DisplayName) == "" {
		return fmt.Errorf("display name cannot be empty")
	}

	return nil
}
