// cmd/admintool/main.go
//
// Small operational helper for managing back-office accounts without
// going through the API: generate a bcrypt hash, or create/reset an
// admin user directly in the database.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/domain/admin"
	"github.com/framecraft/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/framecraft/storefront-backend/internal/pkg/auth"
)

func main() {
	var (
		hashOnly = flag.Bool("hash", false, "print the bcrypt hash for -password and exit")
		username = flag.String("username", "", "admin username to create or reset")
		password = flag.String("password", "", "password to set")
	)
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "usage: admintool -password <pw> [-hash | -username <name>]")
		os.Exit(2)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		logrus.Fatalf("Failed to hash password: %v", err)
	}

	if *hashOnly {
		fmt.Println(hash)
		return
	}

	if *username == "" {
		fmt.Fprintln(os.Stderr, "admintool: -username is required unless -hash is set")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	gdb := db.GetDB()
	var user admin.User
	err = gdb.Where("username = ?", *username).First(&user).Error
	if err == nil {
		if err := gdb.Model(&user).Updates(map[string]interface{}{
			"password_hash": hash,
			"is_active":     true,
		}).Error; err != nil {
			logrus.Fatalf("Failed to reset password: %v", err)
		}
		fmt.Printf("Password reset for %q\n", *username)
		return
	}

	user = admin.User{Username: *username, PasswordHash: hash, IsActive: true}
	if err := gdb.Create(&user).Error; err != nil {
		logrus.Fatalf("Failed to create admin user: %v", err)
	}
	fmt.Printf("Created admin user %q\n", *username)
}
