package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/api"
	"github.com/Pocket-Impact/pocketImpact-backend/internal/db"
	"github.com/Pocket-Impact/pocketImpact-backend/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	addr := utils.EnvOr("PI_ADDR", ":8080")

	var store api.Store
	if path := utils.EnvOr("PI_DB_PATH", ""); path != "" {
		sqlite, err := db.Open(path)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer sqlite.Close()
		store = sqlite
		log.Printf("using sqlite store at %s", path)
	} else {
		log.Printf("PI_DB_PATH not set, using in-memory store")
	}

	handler := api.NewRouter(store).Handler()

	log.Printf("Pocket Impact API listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
