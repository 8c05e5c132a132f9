package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/helpdesk/pkg/triage"
	"github.com/cognicore/helpdesk/pkg/triage/artifact"
	"github.com/cognicore/helpdesk/pkg/triage/config"
)

// triage-cli runs the pipeline once on a description from the command
// line (or stdin) and prints the ticket JSON payload. No database is
// touched.
func main() {
	var (
		artifactDir = flag.String("artifacts", "models", "Artifact directory")
		configPath  = flag.String("config", "", "Config file (optional)")
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
	if *artifactDir != "" {
		cfg.ArtifactDir = *artifactDir
	}

	loader := artifact.Loader{Dir: cfg.ArtifactDir, Fallbacks: artifact.DefaultFallbacks()}
	set, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load artifacts:", err)
	}

	description := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(description) == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal("Failed to read stdin:", err)
		}
		description = string(data)
	}

	engine := triage.NewFromConfig(cfg, set)
	t, err := engine.Assemble(description)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
