package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/joinup-app/joinup-api/config"
	"github.com/joinup-app/joinup-api/internal/domain/entity"
	"github.com/joinup-app/joinup-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	password := "admin123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	roles, err := json.Marshal([]string{entity.RoleAdmin})
	if err != nil {
		log.Fatalf("failed to marshal roles: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (email, password, name, last_name, username, birthday, roles)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET roles = EXCLUDED.roles, updated_at = now()
		RETURNING id
	`, email, hash, "Admin", "Account", "admin", "1990-01-01", roles).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin user: id=%d email=%s password=%s\n", id, email, password)
}
