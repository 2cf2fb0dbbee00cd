package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/dd0wney/cluso-mycelium/pkg/config"
	"github.com/dd0wney/cluso-mycelium/pkg/engine"
	"github.com/dd0wney/cluso-mycelium/pkg/logging"
	"github.com/dd0wney/cluso-mycelium/pkg/server"
)

func main() {
	port := flag.Int("port", 0, "HTTP server port (default 8080, or set PORT)")
	configPath := flag.String("config", "", "Path to YAML configuration")
	seed := flag.Int64("seed", 0, "Seed for the bootstrap network (0 skips bootstrap)")
	nodes := flag.Int("nodes", 20, "Bootstrap network size")
	flag.Parse()

	if *port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if p, err := strconv.Atoi(envPort); err == nil {
				*port = p
			} else {
				*port = 8080
			}
		} else {
			*port = 8080
		}
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	logger.Info("mycelium server starting",
		logging.Int("port", *port),
		logging.String("mirror_driver", cfg.Mirror.Driver),
	)

	ctx := context.Background()
	eng, err := engine.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create engine", logging.Error(err))
		os.Exit(1)
	}
	defer eng.Close()

	if *seed != 0 {
		roles, err := eng.BuildRandomNetwork(engine.BuildOptions{Nodes: *nodes, Seed: *seed})
		if err != nil {
			logger.Error("failed to bootstrap network", logging.Error(err))
			os.Exit(1)
		}
		logger.Info("bootstrap network ready", logging.Count(len(roles)))
	}

	addr := fmt.Sprintf(":%d", *port)
	srv := server.New(addr, eng, logger)
	if err := srv.Start(); err != nil {
		logger.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("server exited")
}
