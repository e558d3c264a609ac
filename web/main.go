package main

import (
	"log/slog"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/web/server"
	"github.com/spf13/cobra"
)

func main() {
	var port int
	var scenesDir, logLevel string

	cmd := &cobra.Command{
		Use:          "raytracer-web",
		Short:        "Serve the ray tracer viewer over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := core.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			logger.Info("Whitted Ray Tracer Web Server", "url", "http://localhost:"+cmd.Flag("port").Value.String())
			return server.NewServer(port, scenesDir, logger).Start()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to serve on")
	cmd.Flags().StringVar(&scenesDir, "scenes-dir", "", "Directory of YAML scene files (default: scenes or ../scenes)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
