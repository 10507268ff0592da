package main

import (
	"github.com/drakos74/edu-indicators/infra/config"
	"github.com/drakos74/edu-indicators/internal/pipeline"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	profile := config.Profile()
	cfg := config.DefaultCluster()
	if err := config.Load(profile, &cfg); err != nil {
		log.Error().Err(err).Str("profile", profile).Msg("could not load config")
		return
	}
	cfg.Logging.Setup()

	runID := uuid.New().String()
	log.Logger = log.With().Str("run", runID).Logger()
	env := pipeline.NewEnv(runID, cfg.Output)
	defer env.Metrics.Log()

	result, err := pipeline.Cluster(cfg, env)
	if err != nil {
		log.Error().Err(err).Str("profile", profile).Msg("clustering aborted")
		return
	}
	log.Info().
		Str("profile", profile).
		Int("k", result.K).
		Float64("inertia", result.Inertia).
		Strs("charts", result.Charts).
		Msg("clustering done")
}
