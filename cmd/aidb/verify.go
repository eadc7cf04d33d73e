package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Prayag-01/ai-project/db"
	"github.com/Prayag-01/ai-project/report"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Report the top product/model combinations of an existing database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.verify(cmd.Context())
		},
	}
}

func (a *app) verify(ctx context.Context) error {
	result, err := db.Verify(ctx, a.verifyOptions())
	report.WriteVerify(a.out, result)
	return err
}
