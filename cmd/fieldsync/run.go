package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a single sync and print the result",
		Example: `  fieldsync run
  fieldsync run --config fieldsync.yaml --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer, err := a.newSyncer(cmd)
			if err != nil {
				return err
			}
			result := syncer.Run(cmd.Context())

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(result); err != nil {
				return err
			}
			if !result.IsSuccess() {
				return errors.New(result.Message)
			}
			return nil
		},
	}
}
