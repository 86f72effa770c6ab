package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "user <id>",
		Short:   "Show the id and name of a Dwolla account",
		Example: `  DWIFT_TOKEN=... dwift user 812-741-6790 -o text`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "text" {
				return fmt.Errorf("invalid --output %q", output)
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			resp := c.User(cmd.Context(), args[0])
			if err := printResponse(a.stdout, output, resp); err != nil {
				return err
			}
			if !resp.Success {
				return errUnsuccessful
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format (json, text)")
	return cmd
}
