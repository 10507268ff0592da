package main

import (
	"github.com/drakos74/edu-indicators/infra/config"
	"github.com/drakos74/edu-indicators/internal/pipeline"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.DefaultCompare()
	if err := config.Load(config.CompareKey, &cfg); err != nil {
		log.Error().Err(err).Msg("could not load config")
		return
	}
	cfg.Logging.Setup()

	runID := uuid.New().String()
	log.Logger = log.With().Str("run", runID).Logger()
	env := pipeline.NewEnv(runID, cfg.Output)
	defer env.Metrics.Log()

	result, err := pipeline.Compare(cfg, env)
	if err != nil {
		log.Error().Err(err).Msg("comparison aborted")
		return
	}
	log.Info().
		Int("rows", result.Rows).
		Int("dropped", result.Dropped).
		Ints("years", result.Series.Years).
		Str("chart", result.Chart).
		Msg("comparison done")
}
