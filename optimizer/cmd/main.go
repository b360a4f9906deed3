package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sentium-labs/bridge-optimizer/optimizer/config"
	"github.com/sentium-labs/bridge-optimizer/optimizer/datagen"
	"github.com/sentium-labs/bridge-optimizer/optimizer/metrics"
	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
	"github.com/sentium-labs/bridge-optimizer/optimizer/nn"
	"github.com/sentium-labs/bridge-optimizer/optimizer/router"
	"github.com/sentium-labs/bridge-optimizer/optimizer/rpc"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Logger()

	nn.SetLogger(log)
	router.SetLogger(log)
	rpc.SetLogger(log)
}

func main() {
	metadataPath := flag.String("chains", "", "chain metadata file (TOML or JSON); built-in defaults when empty")
	checkpoint := flag.String("checkpoint", "route_optimizer.json", "model checkpoint path")
	load := flag.Bool("load", false, "load the checkpoint instead of training")
	samples := flag.Int("samples", 1000, "number of synthetic training examples")
	epochs := flag.Int("epochs", 50, "training epochs")
	learningRate := flag.Float64("lr", 0.001, "learning rate")
	seed := flag.Int64("seed", 1, "seed for weight init and data generation")
	serveAddr := flag.String("serve", "", "serve the HTTP API on this address after setup (empty: run the demo and exit)")
	flag.Parse()

	registry := models.DefaultRegistry()
	if *metadataPath != "" {
		loaded, err := config.LoadRegistry(*metadataPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load chain metadata")
		}
		registry = loaded
	}
	log.Info().Int("chains", len(registry)).Msg("Chain registry ready")

	recorder := metrics.NewPrometheusRecorder(prometheus.DefaultRegisterer)
	optimizer := router.New(registry,
		router.WithRecorder(recorder),
		router.WithScorerOptions(nn.WithSeed(*seed)),
	)

	if *load {
		if err := optimizer.Load(*checkpoint); err != nil {
			log.Fatal().Err(err).Str("path", *checkpoint).Msg("Failed to load checkpoint")
		}
		log.Info().Str("path", *checkpoint).Msg("Loaded model checkpoint")
	} else {
		chains := make([]string, 0, len(registry))
		for name := range registry {
			chains = append(chains, name)
		}
		sort.Strings(chains) // map order would break seeded reproducibility

		log.Info().Int("samples", *samples).Msg("Generating training data")
		examples := datagen.New(*seed, chains).Examples(*samples)

		log.Info().Int("epochs", *epochs).Float64("lr", *learningRate).Msg("Training model")
		if err := optimizer.Fit(examples, *epochs, *learningRate); err != nil {
			log.Fatal().Err(err).Msg("Training failed")
		}

		if err := optimizer.Save(*checkpoint); err != nil {
			log.Fatal().Err(err).Str("path", *checkpoint).Msg("Failed to save checkpoint")
		}
		log.Info().Str("path", *checkpoint).Msg("Saved model checkpoint")
	}

	runDemo(optimizer)

	if *serveAddr != "" {
		serve(optimizer, *serveAddr)
	}
}

// runDemo scores two candidate routes between ethereum and polkadot: a
// two-hop path through sentium with higher confidence, and a direct liquidity
// bridge with lower confidence.
func runDemo(optimizer *router.RouteOptimizer) {
	candidates := []models.Route{
		{
			SourceChain: "ethereum",
			TargetChain: "polkadot",
			Hops: []models.Hop{
				{FromChain: "ethereum", ToChain: "sentium", BridgeType: models.BridgeNative, Cost: 50000, TimeMs: 5000},
				{FromChain: "sentium", ToChain: "polkadot", BridgeType: models.BridgeNative, Cost: 30000, TimeMs: 3000},
			},
			EstimatedCost:   80000,
			EstimatedTimeMs: 8000,
			ConfidenceScore: 0.97,
		},
		{
			SourceChain: "ethereum",
			TargetChain: "polkadot",
			Hops: []models.Hop{
				{FromChain: "ethereum", ToChain: "polkadot", BridgeType: models.BridgeLiquidity, Cost: 80000, TimeMs: 8000},
			},
			EstimatedCost:   80000,
			EstimatedTimeMs: 8000,
			ConfidenceScore: 0.90,
		},
	}

	best, err := optimizer.Optimize(candidates)
	if err != nil {
		log.Fatal().Err(err).Msg("Route optimization failed")
	}

	log.Info().
		Str("source", best.SourceChain).
		Str("target", best.TargetChain).
		Int("hops", len(best.Hops)).
		Float64("cost", best.EstimatedCost).
		Float64("time_ms", best.EstimatedTimeMs).
		Msg("Best route")
}

func serve(optimizer *router.RouteOptimizer, addr string) {
	cfg := rpc.DefaultServerConfig()
	cfg.Address = addr

	server := rpc.NewServer(cfg, optimizer)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			sigCh <- syscall.SIGTERM
		}
	}()

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}
