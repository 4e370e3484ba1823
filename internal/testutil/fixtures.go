package testutil

import (
	"github.com/ycelik/miniblog/internal/models"
	"github.com/ycelik/miniblog/internal/utils"
)

// CreateTestUser creates a test user with a hashed password
func CreateTestUser(username, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
	}, nil
}

// DefaultTestUser returns a default test user (regular user)
func DefaultTestUser() (*models.User, error) {
	return CreateTestUser("testuser", "Test123456", models.RoleUser)
}

// DefaultAdminUser returns a default admin user
func DefaultAdminUser() (*models.User, error) {
	return CreateTestUser("admin", "Admin123456", models.RoleAdmin)
}

// CreateTestPost creates a test post
func CreateTestPost(title, text string) *models.Post {
	return &models.Post{
		Title: title,
		Text:  text,
	}
}
