package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Prayag-01/ai-project/db"
	"github.com/Prayag-01/ai-project/report"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Build the database, then verify it (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAll(cmd.Context())
		},
	}
}

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Recreate the database from the schema and data scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.build(cmd.Context())
		},
	}
}

// runAll builds and then verifies. Verification is skipped after a failed
// build unless verify_on_failure is set; any failed phase fails the run.
func (a *app) runAll(ctx context.Context) error {
	buildErr := a.build(ctx)
	if buildErr != nil && !a.cfg.VerifyOnFailure {
		a.sugar().Warnw("skipping verification after failed build", "path", a.cfg.DBPath)
		return buildErr
	}
	return errors.Join(buildErr, a.verify(ctx))
}

func (a *app) build(ctx context.Context) error {
	result, err := db.Build(ctx, a.buildOptions())
	report.WriteBuild(a.out, result)
	return err
}
