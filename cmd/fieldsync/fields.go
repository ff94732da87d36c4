package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homemade/fieldsync/sync"
)

func newFieldsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "Print the sheet to FieldWork HQ field mapping as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			csv, err := sync.GenerateFieldDocumentation(a.config).FormatCSV()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), csv)
			return err
		},
	}
}
