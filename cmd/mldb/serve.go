package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	mldb "github.com/src-d/go-mldb"
	"github.com/src-d/go-mldb/server"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := serverConfig(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	def := server.DefaultConfig()
	flags := cmd.Flags()
	flags.String("address", def.Address, "address to listen on")
	flags.String("data-dir", def.DataDir, "directory of persisted datasets, enables the bolt.mutable kind")
	flags.Duration("read-timeout", def.ReadTimeout, "maximum duration for reading a request")
	flags.Duration("write-timeout", def.WriteTimeout, "maximum duration for writing a response")
	flags.Duration("shutdown-timeout", def.ShutdownTimeout, "time given to in-flight requests on shutdown")
	flags.Int64("max-body-size", def.MaxBodySize, "maximum size in bytes of a request body")
	flags.String("seed-file", def.SeedFile, "YAML file with datasets to load on startup")
	flags.Bool("metrics", def.Metrics, "serve prometheus metrics on /metrics")

	return cmd
}

func serverConfig(v *viper.Viper) (server.Config, error) {
	cfg := server.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg server.Config) error {
	s, err := server.NewServer(cfg, mldb.NewDefault())
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	select {
	case err := <-errc:
		_ = s.Close()
		return err
	case <-ctx.Done():
		logrus.Info("shutting down")
		if err := s.Close(); err != nil {
			return err
		}
		return <-errc
	}
}
