package main

import (
	"fmt"
	"os"

	"github.com/PauloHFS/blog/internal/cmd"
	"github.com/PauloHFS/blog/web/static/assets"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if len(os.Args) < 2 {
		cmd.RunServer(assets.FS)
		return
	}

	switch os.Args[1] {
	case "server":
		cmd.RunServer(assets.FS)
	case "seed":
		cmd.RunSeed()
	case "migrate":
		cmd.RunMigrate()
	case "create-user":
		cmd.RunCreateUser()
	case "help":
		showHelp()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		showHelp()
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Blog - Single Binary Console")
	fmt.Println("Usage: ./blog [command] [args]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  server       Start the web server (default)")
	fmt.Println("  migrate      Run database migrations")
	fmt.Println("  seed         Run migrations and seed the database (alice/bob, password123)")
	fmt.Println("  create-user  Create a new user (args: <username> <email> <password>)")
	fmt.Println("  help         Show this help message")
}
