package main

import (
	"log"
	"net/http"

	"dealflow/internal/api"
	"dealflow/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	h := api.NewServer(cfg)
	log.Printf("dealflow api listening on %s embed_providers=%q websearch=%q", cfg.APIAddr, cfg.EmbedProviders, cfg.WebSearchProviders)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
