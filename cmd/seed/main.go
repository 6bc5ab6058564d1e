package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/telecare/telecare-api/config"
	"github.com/telecare/telecare-api/pkg/helpers"
)

type seedUser struct {
	email    string
	password string
	phone    string
	role     string
}

// Demo accounts matching the sample data the dashboard displays.
var seedUsers = []seedUser{
	{"dr.sarah@telecare.dev", "doctor1234", "+15550100", "DOCTOR"},
	{"james.walker@example.com", "patient1234", "+15550101", "PATIENT"},
	{"maria.gomez@example.com", "patient1234", "+15550102", "PATIENT"},
	{"admin@telecare.dev", "admin1234", "", "ADMIN"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, su := range seedUsers {
		hash, err := helpers.HashPassword(su.password)
		if err != nil {
			log.Fatalf("failed to hash password for %s: %v", su.email, err)
		}

		var phone *string
		if su.phone != "" {
			phone = &su.phone
		}

		var id string
		err = db.QueryRow(`
			INSERT INTO users (email, password_hash, phone, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (lower(email)) DO UPDATE SET updated_at = now()
			RETURNING id
		`, su.email, hash, phone, su.role).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", su.email, err)
		}
		fmt.Printf("seeded user: id=%s email=%s role=%s\n", id, su.email, su.role)
	}
}
