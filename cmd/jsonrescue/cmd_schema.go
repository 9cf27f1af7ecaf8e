package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leofalp/jsonrescue/core/payload"
	"github.com/leofalp/jsonrescue/internal/utils"
)

func newSchemaCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:       "schema {journey|playbook}",
		Short:     "Print the JSON schema of a payload shape",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(payload.ShapeJourney), string(payload.ShapePlaybook)},
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := payload.SchemaFor(payload.Shape(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), utils.JSONToString(schema, !compact))
			return err
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "print on a single line")

	return cmd
}
