package cli

import (
	"context"
	"fmt"
	"strings"

	"resumeforge/internal/common"
	"resumeforge/internal/extract"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

// matchInput is a loaded job description and resume pair
type matchInput struct {
	JobDescription string
	Resume         types.ResumeDocument
}

func newMatchCmd() *cobra.Command {
	var (
		cmdConfig  common.CommandConfig
		resumeFile string
	)

	cmd := &cobra.Command{
		Use:   "match <job-description-file|->",
		Short: "Match a resume against a job description",
		Long: `Extract the technical keywords of a job description and measure how many
of them the resume's technical skills cover. The job description may be plain
text, markdown, HTML, PDF or DOCX; pass "-" to read plain text from stdin.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepareOutput(cmd, &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, args, cmdConfig, resumeFile)
		},
	}

	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		exts := extract.SupportedExtensions()
		for i, ext := range exts {
			exts[i] = strings.TrimPrefix(ext, ".")
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}

	addOutputFlags(cmd, &cmdConfig)
	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Resume file (JSON or YAML)")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagFilename("resume", "json", "yaml", "yml")
	return cmd
}

func runMatch(cmd *cobra.Command, args []string, cmdConfig common.CommandConfig, resumeFile string) error {
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

	loadInput := func(fp *common.FileProcessor, args []string) (matchInput, error) {
		job, err := fp.WithStdin(cmd.InOrStdin()).ReadJobDescription(args[0])
		if err != nil {
			return matchInput{}, err
		}
		doc, err := fp.LoadResume(resumeFile)
		if err != nil {
			return matchInput{}, err
		}
		return matchInput{JobDescription: job, Resume: doc}, nil
	}

	logDetails := func(input matchInput, cfg common.CommandConfig) {
		logger.Info("Matching resume against job description",
			"resume", resumeFile,
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	matchOperation := func(ctx context.Context, input matchInput) (types.JobMatchResult, error) {
		return svc.MatchJob(ctx, input.JobDescription, input.Resume)
	}

	if err := common.RunCommand(cmd.Context(), logger, cmdConfig, args, loadInput, matchOperation, logDetails); err != nil {
		return fmt.Errorf("failed to match job description: %w", err)
	}
	return nil
}
