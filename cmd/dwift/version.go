package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ozbe/dwift/version"
)

func newVersionCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			switch output {
			case "json":
				s, err := info.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, s)
			case "short":
				fmt.Fprintln(a.stdout, info.String())
			case "text", "":
				fmt.Fprintln(a.stdout, info.Text())
			default:
				return fmt.Errorf("invalid --output %q", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, short)")
	return cmd
}
