package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"crms/backend/internal/auth"
	"crms/backend/internal/config"
	"crms/backend/internal/storage"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	authSvc := auth.NewService(storageSvc)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "list-users":
		users, err := storageSvc.ListUsers()
		if err != nil {
			log.Fatalf("Error listing users: %v", err)
		}
		for _, u := range users {
			fmt.Printf("%-36s  %-10s  %s\n", u.ID, u.Role, u.DisplayName())
		}
	case "promote":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin promote <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := authSvc.SetRole(userID, config.RoleAdmin); err != nil {
			if errors.Is(err, auth.ErrAdminExists) {
				fmt.Println("Refused: an admin already exists. Demote them first.")
				os.Exit(1)
			}
			log.Fatalf("Error promoting user: %v", err)
		}
		fmt.Printf("User %s is now the admin.\n", userID)
	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin demote <user_id> [role]")
			os.Exit(1)
		}
		userID := os.Args[2]
		role := config.RoleOfficer
		if len(os.Args) > 3 {
			role = os.Args[3]
		}
		if err := authSvc.SetRole(userID, role); err != nil {
			log.Fatalf("Error demoting user: %v", err)
		}
		fmt.Printf("User %s now has role %s.\n", userID, role)
	case "delete-user":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-user <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := storageSvc.DeleteUser(userID); err != nil {
			log.Fatalf("Error deleting user: %v", err)
		}
		fmt.Printf("User %s has been deleted.\n", userID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}
