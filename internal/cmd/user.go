package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/services"
)

func RunCreateUser() {
	if len(os.Args) < 5 {
		fmt.Println("Usage: create-user <username> <email> <password>")
		os.Exit(1)
	}
	username := os.Args[2]
	email := os.Args[3]
	password := os.Args[4]

	dbConn, err := initDB()
	if err != nil {
		panic(err)
	}
	defer dbConn.Close()

	ctx := context.Background()
	if err := db.RunMigrations(ctx, dbConn); err != nil {
		fmt.Printf("failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	auth := services.NewAuthService(db.New(dbConn))
	out := auth.Register(ctx, services.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if !out.Success {
		fmt.Printf("failed to create user: %s\n", out.Error)
		os.Exit(1)
	}
	fmt.Printf("User %s (%s) created successfully\n", out.User.Username, out.User.Email)
}
