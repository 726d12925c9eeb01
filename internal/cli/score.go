package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/analyzer"
	"resumeforge/internal/common"
	"resumeforge/internal/errors"
	"resumeforge/internal/types"
	"resumeforge/internal/watch"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentScores bounds the files scored at once
const maxConcurrentScores = 8

func newScoreCmd() *cobra.Command {
	var (
		cmdConfig common.CommandConfig
		watchMode bool
	)

	cmd := &cobra.Command{
		Use:   "score <resume-file>...",
		Short: "Score one or more resumes",
		Long: `Score structured resumes (JSON or YAML) for completeness and ATS
compatibility. Each result carries a 0-100 score, issues tied to resume
sections, the technical keywords found, and improvement suggestions.

Several files are scored concurrently and reported in argument order.
With --watch the files are re-scored whenever they change.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareOutput(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, args, cmdConfig, watchMode)
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-score the files whenever they change")
	return cmd
}

func runScore(cmd *cobra.Command, args []string, cmdConfig common.CommandConfig, watchMode bool) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	svc, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	if err := scoreFiles(cmd.Context(), svc, logger, cmdConfig, args); err != nil {
		if !watchMode {
			return fmt.Errorf("failed to score resume: %w", err)
		}
		logger.LogError(err, "Scoring failed, waiting for changes")
	}
	if !watchMode {
		return nil
	}

	watcher, err := watch.NewFileWatcher(args, cfg.Analysis.WatchDebounce, func(changed []string) {
		logger.Info("Resume changed, re-scoring", "files", changed)
		if err := scoreFiles(cmd.Context(), svc, logger, cmdConfig, args); err != nil {
			logger.LogError(err, "Re-scoring failed")
		}
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("Watching resumes for changes", "files", watcher.Files())
	return watcher.Run(cmd.Context())
}

// scoreFiles scores a single file through the shared command runner, or
// several files concurrently as one ordered batch
func scoreFiles(ctx context.Context, svc *analyzer.Service, logger *errors.Logger, cmdConfig common.CommandConfig, files []string) error {
	if len(files) == 1 {
		return common.RunCommand(ctx, logger, cmdConfig, files,
			func(fp *common.FileProcessor, args []string) (types.ResumeDocument, error) {
				return fp.LoadResume(args[0])
			},
			svc.ScoreResume,
			func(_ types.ResumeDocument, cfg common.CommandConfig) {
				logger.Info("Scoring resume", "file", files[0], "output_format", cfg.OutputFormat)
			},
		)
	}

	fp := common.NewFileProcessor(logger, cmdConfig.MaxFileSize)
	if err := fp.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	logger.Info("Scoring resumes", "files", len(files), "output_format", cmdConfig.OutputFormat)

	results := make([]types.ScoreFileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScores)
	for i, file := range files {
		g.Go(func() error {
			doc, err := fp.LoadResume(file)
			if err != nil {
				return err
			}
			result, err := svc.ScoreResume(gctx, doc)
			if err != nil {
				if appErr, ok := errors.AsAppError(err); ok {
					return appErr.WithContext("file", file)
				}
				return err
			}
			results[i] = types.ScoreFileResult{File: file, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	handler := common.NewOutputHandlerWithWriter(logger, cmdConfig.Stdout)
	return handler.HandleOutput(results, cmdConfig)
}
