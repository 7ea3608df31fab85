package main

import (
	"log"

	"github.com/aurelben/boutiq/internal/server"

	// Migrations and seeders self-register through init().
	_ "github.com/aurelben/boutiq/database/migrations"
	_ "github.com/aurelben/boutiq/database/seeders"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
