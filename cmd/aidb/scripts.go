package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Prayag-01/ai-project/database"
)

func newScriptsCmd(a *app) *cobra.Command {
	scriptsCmd := &cobra.Command{
		Use:   "scripts",
		Short: "Work with the SQL scripts compiled into the binary",
	}

	var dir string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the embedded schema and sample data scripts to a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaPath, dataPath, err := database.Export(dir)
			if err != nil {
				return err
			}
			a.sugar().Infow("scripts exported", "dir", dir)
			fmt.Fprintln(a.out, schemaPath)
			fmt.Fprintln(a.out, dataPath)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&dir, "dir", ".", "Directory to write the scripts into")

	scriptsCmd.AddCommand(exportCmd)
	return scriptsCmd
}
