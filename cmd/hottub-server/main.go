package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/KyleBrandon/hottub-server/pkg/server"
	_ "github.com/lib/pq"
)

func main() {
	// parse the command-line flags
	flag.Parse()

	config, err := server.InitializeServer()
	if err != nil {
		slog.Error("failed to initialize the server", "error", err)
		os.Exit(1)
	}

	// serve until shutdown; a fault exits non-zero
	if err := config.RunServer(); err != nil {
		slog.Error("server stopped on a fault", "error", err)
		os.Exit(1)
	}
}
