package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cropcast/config"
	"cropcast/pkg/ai"
	"cropcast/pkg/envelope"
	"cropcast/pkg/logging"
	"cropcast/pkg/metrics"
	"cropcast/pkg/prediction/serviceImp"
)

type app struct {
	cfg config.AppConfig
	log *zap.Logger
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "cropcast",
		Short:         "Satellite-assisted crop yield forecasts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			log.Info("config loaded", zap.Object("config", cfg))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	serve := newServeCmd(a)
	root.AddCommand(serve, newPredictCmd(a))
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cropcast:", err)
		os.Exit(1)
	}
}

type deps struct {
	env     *envelope.Envelope
	client  ai.Client
	metrics *metrics.Metrics
	svc     *serviceImp.PredictionSvc
}

// wire builds the prediction stack shared by serve and predict.
func (a *app) wire(ctx context.Context) (*deps, error) {
	env, err := envelope.LoadFromFile(a.cfg.EnvelopeFile)
	if err != nil {
		return nil, err
	}
	gemini, err := ai.NewGemini(ctx, a.cfg.APIKey, a.cfg.Model, a.log)
	if err != nil {
		return nil, err
	}
	client := ai.WithBreaker(gemini, a.cfg.BreakerMaxFailures, a.cfg.BreakerOpenFor, a.log)
	m := metrics.New()
	return &deps{
		env:     env,
		client:  client,
		metrics: m,
		svc:     serviceImp.NewPredictionService(client, env, a.log, m, a.cfg.PredictTimeout),
	}, nil
}
