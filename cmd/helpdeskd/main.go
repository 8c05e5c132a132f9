package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/cognicore/helpdesk/internal/web"
	"github.com/cognicore/helpdesk/pkg/triage"
	"github.com/cognicore/helpdesk/pkg/triage/artifact"
	"github.com/cognicore/helpdesk/pkg/triage/config"
	"github.com/cognicore/helpdesk/pkg/triage/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (optional, defaults apply)")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("Failed to load configuration:", err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	// Pretrained artifacts are required: without them the triage
	// pipeline cannot classify, so refuse to start.
	loader := artifact.Loader{Dir: cfg.ArtifactDir, Fallbacks: artifact.DefaultFallbacks()}
	set, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load artifacts:", err)
	}

	ctx := context.Background()
	st, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer st.Close()

	engine := triage.NewFromConfig(cfg, set)
	server := web.NewServer(engine, st)

	log.Printf("helpdeskd listening on %s (db=%s artifacts=%s)", cfg.ListenAddr, cfg.DBPath, cfg.ArtifactDir)
	if err := http.ListenAndServe(cfg.ListenAddr, server.Handler()); err != nil {
		log.Fatal(err)
	}
}
