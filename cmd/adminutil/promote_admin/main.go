package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"skillswap/internal/db"
)

func main() {
	email := flag.String("email", "", "Email of the member to promote to admin")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: go run cmd/adminutil/promote_admin/main.go -email user@example.com")
	}

	_ = godotenv.Load()

	// Initialize DB from environment variables
	db.Init()

	// Admins keep their member row but stop being marketplace actors; market
	// routes require the member role.
	ct, err := db.Conn.Exec(context.Background(),
		`UPDATE members SET role = 'admin' WHERE email = $1`, *email)
	if err != nil {
		log.Fatalf("failed to promote member to admin: %v", err)
	}

	if ct.RowsAffected() == 0 {
		log.Fatalf("no member found with email: %s", *email)
	}

	fmt.Printf("Member %s promoted to admin.\n", *email)
}
