package main

import (
	"log"
	"os"

	"github.com/ycelik/miniblog/internal/config"
	"github.com/ycelik/miniblog/internal/database"
	"github.com/ycelik/miniblog/internal/models"
	"github.com/ycelik/miniblog/internal/utils"
)

// Registration always produces role=user, so the only way an admin account
// exists is through this seed command.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_PASSWORD")
	}

	// Check if admin with this username already exists
	var admin models.User
	result := db.Where("username = ?", adminUsername).First(&admin)

	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Username)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		Username:     adminUsername,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully:", admin.Username)
}
