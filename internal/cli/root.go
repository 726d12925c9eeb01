package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/analyzer"
	"resumeforge/internal/common"
	"resumeforge/internal/config"
	"resumeforge/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// NewRootCmd builds the resumeforge command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "resumeforge",
		Short: "A CLI tool for scoring resumes and matching them to job descriptions",
		Long: `Resumeforge is a command-line tool and HTTP service that scores structured
resumes, matches them against job descriptions, and suggests role-specific
content. All analysis is deterministic and rule-based.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	return NewRootCmd().ExecuteContext(ctx)
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok && cfg != nil {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok && logger != nil {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

// prepareOutput applies the configured default format, validates it, and
// points output at the command's writer
func prepareOutput(cmd *cobra.Command, cmdConfig *common.CommandConfig) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	cmdConfig.MaxFileSize = cfg.App.MaxFileSize
	cmdConfig.Stdout = cmd.OutOrStdout()
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

// addOutputFlags registers --output and --format with format completion
func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, yaml, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// newAnalyzer builds the analysis service from the analysis config
func newAnalyzer(cfg *config.Config, logger *errors.Logger) (*analyzer.Service, error) {
	return analyzer.NewService(analyzer.Options{
		Vocabulary:    cfg.Analysis.Vocabulary,
		MatchStrategy: cfg.Analysis.MatchStrategy,
	}, logger)
}
