package main

import (
	"log"
	"os"

	"simak/pkg/localstore"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	jwtSecret []byte    // loaded from env JWT_SECRET (fallback to dev default)
	state     *AppState // canonical application state, loaded at startup
)

func main() {
	// Load ./.env if present before reading vars; existing env wins.
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)
	adminPassHash = resolveAdminHash()

	store := localstore.Open()
	state = NewAppState(store)
	if err := state.Load(); err != nil {
		log.Fatalf("failed to load persisted data: %v", err)
	}
	if err := os.MkdirAll(lampiranBaseDir(), 0755); err != nil {
		log.Printf("failed to create lampiran dir: %v", err)
	}

	go driftOnlineCount()

	r := gin.Default()

	setupRoutes(r)

	r.Run(":8081")
}
