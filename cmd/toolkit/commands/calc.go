package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/DesignIQ-Labs/designiq-backend/internal/calculators"
	"github.com/DesignIQ-Labs/designiq-backend/internal/converters"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func calcCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "calc [name]",
		Short: "Run a material calculator, or list them when no name is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range calculators.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			in := calculators.Inputs{}
			if input != "" {
				if err := json.Unmarshal([]byte(input), &in); err != nil {
					return fmt.Errorf("--input must be a JSON object: %w", err)
				}
			}
			res, err := calculators.Run(args[0], in)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", `calculator inputs as JSON, e.g. '{"length":10}'`)
	return cmd
}

func convertCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "convert <category> <value> <from> [to]",
		Short: "Convert a value between units of a category",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("value %q is not a number", args[1])
			}

			if all || len(args) == 3 {
				res, err := converters.ConvertAll(args[0], value, args[2])
				if err != nil {
					return err
				}
				cat, err := converters.Lookup(args[0])
				if err != nil {
					return err
				}
				for _, u := range cat.Units {
					fmt.Fprintf(out, "%s %s\n", humanize.CommafWithDigits(res[u.Key], 6), u.Key)
				}
				return nil
			}

			res, err := converters.Convert(args[0], value, args[2], args[3])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", humanize.CommafWithDigits(res, 6), args[3])
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print the value in every unit of the category")
	return cmd
}
