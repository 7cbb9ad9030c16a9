// seed creates the schema if needed, then inserts a test user, two helpers
// and a small care graph into the local dev database. Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/carelink/carelink/internal/crypto"
	"github.com/carelink/carelink/internal/infrastructure/postgres"
)

const (
	seedPassword = "seed-password-1"

	userMail    = "taro@seed.local"
	helper1Mail = "hana@seed.local"
	helper2Mail = "ken@seed.local"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.InitSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	hash, err := crypto.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	// Upsert accounts (idempotent re-runs)
	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, mail, password_hash, age)
		VALUES ('Taro Seed', $1, $2, 78)
		ON CONFLICT (mail) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		userMail, hash,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	helperIDs := make([]string, 0, 2)
	for _, h := range []struct{ name, mail, nickname string }{
		{"Hana Seed", helper1Mail, "hana"},
		{"Ken Seed", helper2Mail, "ken"},
	} {
		var id string
		err = pool.QueryRow(ctx, `
			INSERT INTO helpers (name, mail, password_hash, nickname, phone_number, relationship)
			VALUES ($1, $2, $3, $4, '090-0000-0000', 'family')
			ON CONFLICT (mail) DO UPDATE SET updated_at = NOW()
			RETURNING id`,
			h.name, h.mail, hash, h.nickname,
		).Scan(&id)
		if err != nil {
			log.Fatalf("upsert helper %s: %v", h.mail, err)
		}
		helperIDs = append(helperIDs, id)
	}

	// One approved connection, one left pending for the approve/reject flow.
	_, err = pool.Exec(ctx, `
		INSERT INTO connections (user_id, helper_id, status)
		VALUES ($1, $2, 'approved')
		ON CONFLICT (user_id, helper_id) WHERE is_deleted = false DO NOTHING`,
		userID, helperIDs[0],
	)
	if err != nil {
		log.Fatalf("insert approved connection: %v", err)
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO connections (user_id, helper_id, status)
		VALUES ($1, $2, 'pending')
		ON CONFLICT (user_id, helper_id) WHERE is_deleted = false DO NOTHING`,
		userID, helperIDs[1],
	)
	if err != nil {
		log.Fatalf("insert pending connection: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO emergency_contacts (user_id, helper_id, name, relationship, phone_number, mail, is_main)
		VALUES ($1, $2, 'Yuki Seed', 'daughter', '080-0000-0000', 'yuki@seed.local', true)
		ON CONFLICT (user_id, helper_id) DO NOTHING`,
		userID, helperIDs[0],
	)
	if err != nil {
		log.Fatalf("insert emergency contact: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO alerts (user_id, title, description, importance, alert_type)
		VALUES ($1, 'Missed morning check-in', 'No activity recorded since 7:00', 4, 'inactivity')`,
		userID,
	)
	if err != nil {
		log.Fatalf("insert alert: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:    %s  (id %s)\n", userMail, userID)
	fmt.Printf("  Helpers: %s (approved), %s (pending)\n", helper1Mail, helper2Mail)
	fmt.Printf("  Password for all accounts: %s\n", seedPassword)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in as the user:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"mail\":\"%s\",\"password\":\"%s\"}'\n", userMail, seedPassword)
	fmt.Println()
	fmt.Println("    export JWT=eyJ...   # token from the response")
	fmt.Println()
	fmt.Println("  Step 2 — list connections and alerts:")
	fmt.Println()
	fmt.Println("    curl -s http://localhost:8080/connections -H \"Authorization: Bearer $JWT\"")
	fmt.Println("    curl -s http://localhost:8080/alerts -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Printf("  Step 3 — log in as %s and settle the pending request:\n", helper2Mail)
	fmt.Println()
	fmt.Println("    curl -s http://localhost:8080/connections/pending -H \"Authorization: Bearer $HELPER_JWT\"")
	fmt.Println("    curl -s -X POST http://localhost:8080/connections/CONN_ID/approve -H \"Authorization: Bearer $HELPER_JWT\"")
}
