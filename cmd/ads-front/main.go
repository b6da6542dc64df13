package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/dgellow/ads-front/internal/config"
	"github.com/dgellow/ads-front/internal/log"
	"github.com/dgellow/ads-front/internal/server"
)

var BuildVersion = "dev"

func main() {
	addr := flag.String("addr", "", "listen address (overrides LISTEN_ADDR)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(BuildVersion)
		return
	}

	cfg := config.Load()
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	if cfg.ClientKey == "" {
		log.LogWarn("TIKTOK_CLIENT_KEY is not set; the connect flow will fail until it is configured")
	}

	log.LogInfoWithFields("main", "Starting ads-front", map[string]any{
		"version": BuildVersion,
		"addr":    cfg.ListenAddr,
		"backend": cfg.APIBaseURL,
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(cfg),
	}
	if err := srv.ListenAndServe(); err != nil {
		log.LogError("Server stopped: %v", err)
		os.Exit(1)
	}
}
