package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/restkit/version"
)

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(out, version.Get().String())
			return err
		},
	}
}
