// seed inserts the demo admin account and sample users into whichever store
// backend the environment configures.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/eaclient/user-api/config"
	"github.com/eaclient/user-api/internal/infrastructure"
	"github.com/eaclient/user-api/internal/seed"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	stores, err := infrastructure.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer stores.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := seed.Demo(ctx, stores.Users, stores.AuthUsers, logger); err != nil {
		log.Fatalf("seed: %v", err)
	}

	if stores.Memory != nil && cfg.SnapshotPath != "" {
		if err := stores.Memory.SaveSnapshot(cfg.SnapshotPath); err != nil {
			log.Fatalf("snapshot: %v", err)
		}
	}

	users, err := stores.Users.FindAll(ctx)
	if err != nil {
		log.Fatalf("list users: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Backend:  %s\n", stores.Backend)
	fmt.Printf("  Users:    %d\n", len(users))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  curl -s -X POST http://localhost:3001/api/auth/login \\")
	fmt.Println("    -H 'Content-Type: application/json' \\")
	fmt.Println("    -d '{\"username\":\"admin\",\"password\":\"admin123\"}'")
	fmt.Println()
	fmt.Println("  export TOKEN=token_..._1")
	fmt.Println("  curl -s http://localhost:3001/api/auth/me -H \"Authorization: Bearer $TOKEN\"")
	fmt.Println("  curl -s http://localhost:3001/api/users")
}
