package common

import (
	"context"
	"time"

	"resumeforge/internal/errors"
)

// LoadInputFunc turns command arguments into the operation input
type LoadInputFunc[Input any] func(fp *FileProcessor, args []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is the analysis step a command runs on its input
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunCommand encapsulates the common logic for file-based CLI commands:
// load input, run the operation, format and write the result.
func RunCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	loadInput LoadInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)
	outputHandler := NewOutputHandlerWithWriter(logger, cmdConfig.Stdout)

	if err := fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	input, err := loadInput(fileProcessor, args)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	start := time.Now()
	result, err := operation(ctx, input)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.Debug("Operation completed", "duration", time.Since(start))
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
