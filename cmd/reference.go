package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/goturtle/internal/interp"
)

var showAliases bool

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Print the command language reference",
	Long:  `Print the same reference block that help() logs inside a program.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, interp.HelpText)
		if !showAliases {
			return
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Aliases:")
		for _, c := range interp.Commands() {
			fmt.Fprintf(out, "  %-10s %s\n", c, strings.Join(c.Aliases()[1:], ", "))
		}
	},
}

func init() {
	referenceCmd.Flags().BoolVar(&showAliases, "aliases", false, "Also list every accepted spelling of each command")

	rootCmd.AddCommand(referenceCmd)
}
