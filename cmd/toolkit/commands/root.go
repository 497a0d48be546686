// Package commands implements the toolkit CLI: offline calculators and
// unit conversion plus database and job maintenance.
package commands

import (
	"github.com/spf13/cobra"
)

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "toolkit",
		Short:         "DesignIQ calculators, converters and maintenance tasks",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(calcCmd(), convertCmd(), migrateCmd(), sweepCmd())
	return root
}

func Execute() error {
	return NewRoot().Execute()
}
