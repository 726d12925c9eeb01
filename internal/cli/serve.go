package cli

import (
	"fmt"

	"resumeforge/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var host, port, tlsMode, certFile, keyFile, caFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server for resume scoring and job matching",
		Long: `Start an HTTP server that provides REST API endpoints for resume analysis.

Available endpoints:
- POST /score: Score a resume
- POST /match: Match a resume against a job description
- GET /suggestions: List known roles and industries
- GET /suggestions/{role}: Suggestions for a role
- GET /industries/{industry}: Keywords for an industry
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			logger, err := getLoggerFromContext(cmd.Context())
			if err != nil {
				return err
			}

			// flags override config for this run only
			overrides := map[string]*string{
				"host":      &cfg.Server.Host,
				"port":      &cfg.Server.Port,
				"tls-mode":  &cfg.Server.TLS.Mode,
				"cert-file": &cfg.Server.TLS.CertFile,
				"key-file":  &cfg.Server.TLS.KeyFile,
				"ca-file":   &cfg.Server.TLS.CAFile,
			}
			values := map[string]string{
				"host": host, "port": port, "tls-mode": tlsMode,
				"cert-file": certFile, "key-file": keyFile, "ca-file": caFile,
			}
			for name, target := range overrides {
				if cmd.Flags().Changed(name) {
					*target = values[name]
				}
			}

			if err := cfg.ValidateTLSConfig(); err != nil {
				return fmt.Errorf("invalid TLS configuration: %w", err)
			}

			svc, err := newAnalyzer(cfg, logger)
			if err != nil {
				return err
			}

			srv := server.NewServer(cfg, server.ServerConfigFrom(cfg, Version), svc, logger)
			srv.SetOutput(cmd.OutOrStdout())
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from config)")
	cmd.Flags().StringVar(&host, "host", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&tlsMode, "tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	cmd.Flags().StringVar(&certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
	cmd.Flags().StringVar(&caFile, "ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
	return cmd
}
