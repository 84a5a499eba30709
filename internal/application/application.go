// Package application wires the services, resolver and executor together
// for one resolution run.
package application

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rds-snapshot-copy/internal/awsconfig"
	"rds-snapshot-copy/internal/config"
	"rds-snapshot-copy/internal/display"
	apperrors "rds-snapshot-copy/internal/errors"
	"rds-snapshot-copy/internal/execution"
	"rds-snapshot-copy/internal/kms"
	"rds-snapshot-copy/internal/logging"
	"rds-snapshot-copy/internal/prompt"
	"rds-snapshot-copy/internal/rds"
	"rds-snapshot-copy/internal/resolver"
)

// DatabaseService is the database-service surface the application consumes
type DatabaseService interface {
	resolver.DatabaseLister
	DescribeSnapshotAttributes(ctx context.Context, snapshotID string) (map[string][]string, error)
}

// Application represents the main application
type Application struct {
	config     *config.Config
	logger     *logging.Logger
	display    *display.Service
	classifier *apperrors.ErrorClassifier
}

// NewApplication creates an application from a validated configuration
func NewApplication(cfg *config.Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logLevel := logging.LogLevelNormal
	if cfg.Quiet {
		logLevel = logging.LogLevelQuiet
	} else if cfg.Verbose {
		logLevel = logging.LogLevelVerbose
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:   logLevel,
		LogFile: cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Application{
		config:     cfg,
		logger:     logger,
		display:    display.NewService(cfg.ResolvedFormat(), cfg.NoColor),
		classifier: apperrors.NewErrorClassifier(),
	}, nil
}

// Run resolves the snapshot-copy parameters against live AWS services
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.Load(ctx, awsconfig.Options{
		Region:  app.config.Region,
		Profile: app.config.Profile,
		Timeout: app.config.Timeout,
	})
	if err != nil {
		return app.fail(err)
	}

	databases := rds.NewService(awsCfg, app.logger)
	keys := kms.NewService(awsCfg, app.logger)
	prompter := prompt.NewTerminalPrompter(!app.config.NoColor)

	return app.runWith(ctx, databases, keys, prompter)
}

// runWith executes the resolution flow against the given collaborators.
// Split from Run so tests can substitute scripted services and prompts.
func (app *Application) runWith(ctx context.Context, databases DatabaseService, keys resolver.KeyLister, prompter prompt.Prompter) error {
	app.logger.Info("Resolving snapshot-copy parameters")

	res := resolver.New(databases, keys, prompter, app.logger)
	executor := execution.NewExecutor(res, app.logger)

	params, err := executor.Execute(ctx, execution.Request{
		DBIdentifier: app.config.DBIdentifier,
		KMSKeyID:     app.config.KMSKeyID,
		DBType:       app.config.ResolvedDBType(),
		SnapshotID:   app.config.SnapshotID,
	})
	if err != nil {
		return app.fail(err)
	}

	if err := app.display.RenderResolved(params); err != nil {
		return app.fail(err)
	}

	if len(app.config.AccountIDs) > 0 {
		if err := app.reportSharing(ctx, databases, params); err != nil {
			return app.fail(err)
		}
	}

	app.logger.Info("Resolution completed")
	return nil
}

// reportSharing checks which of the requested accounts are already
// authorized to restore the resolved snapshot
func (app *Application) reportSharing(ctx context.Context, databases DatabaseService, params *execution.ResolvedParameters) error {
	snapshotID := rds.SnapshotIDFromChoice(params.SnapshotDescriptor)

	attributes, err := databases.DescribeSnapshotAttributes(ctx, snapshotID)
	if err != nil {
		return err
	}

	return app.display.RenderSharing(snapshotID, attributes["restore"], app.config.AccountIDs)
}

// fail classifies the error, logs it, and surfaces the user-facing message
func (app *Application) fail(err error) error {
	classified := app.classifier.ClassifyError(err)

	app.logger.WithFields(map[string]interface{}{
		"error_type": string(classified.Type),
		"error":      err.Error(),
	}).Error("Resolution aborted")

	fmt.Fprintln(os.Stderr, classified.GetUserMessage())
	return err
}

// Logger exposes the application logger
func (app *Application) Logger() *logging.Logger {
	return app.logger
}
