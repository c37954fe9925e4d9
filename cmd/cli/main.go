package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"orderdesk/internal/auth"
	"orderdesk/internal/config"
	"orderdesk/internal/infrastructure/mysql"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	username := addAdminCmd.String("username", "", "Username for the new admin")
	password := addAdminCmd.String("password", "", "Password for the new admin")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-admin' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *username == "" || *password == "" {
			fmt.Println("username and password are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		createAdmin(*username, *password)
	default:
		fmt.Println("expected 'add-admin' subcommand")
		os.Exit(1)
	}
}

func createAdmin(username, password string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer db.Close()

	// Make sure the table exists when the CLI runs before the server.
	if err := mysql.InitSchema(db); err != nil {
		log.Fatalf("initializing schema: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hashing password: %v", err)
	}

	users := auth.NewMySQLAdminUserRepository(db)
	if err := users.Insert(context.Background(), username, hash); err != nil {
		log.Fatalf("creating admin user: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", username)
}
