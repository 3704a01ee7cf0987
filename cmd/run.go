package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/goturtle/internal/interp"
	"github.com/itsmostafa/goturtle/internal/render"
	"github.com/itsmostafa/goturtle/internal/session"
)

var evalSource string
var jsonOutput bool
var showVars bool
var stateDir string
var loadState string

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a turtle program",
	Long: `Run a turtle program from a file, from --eval, or from stdin when neither
is given. The diagnostic log and the final turtle state are printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		src, err := readProgram(cmd, args)
		if err != nil {
			return err
		}

		s := session.New(cfg, newLogger(cmd))
		if loadState != "" {
			saved, err := session.LoadFile(loadState)
			if err != nil {
				return err
			}
			if err := s.Restore(saved); err != nil {
				return fmt.Errorf("%s: %w", loadState, err)
			}
			s.KeepVariables()
		}
		runErr := s.Run(cmd.Context(), src)
		snap := s.Snapshot()

		if stateDir != "" {
			path, err := session.NewStore(stateDir).Save(snap)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "state saved to", path)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(snap); err != nil {
				return fmt.Errorf("failed to encode state: %w", err)
			}
		} else {
			render.FormatHistory(out, snap.Turtle.History)
			render.FormatHeader(out, snap)
			if showVars {
				render.FormatVariables(out, snap.Variables)
			}
		}
		return runErr
	},
}

// readProgram returns the program text from --eval, the script argument or
// stdin, in that order. Line breaks in files and stdin separate statements.
func readProgram(cmd *cobra.Command, args []string) (string, error) {
	if evalSource != "" {
		if len(args) > 0 {
			return "", errors.New("give either --eval or a script file, not both")
		}
		return evalSource, nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read script: %w", err)
		}
		return interp.Script(string(data)), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return interp.Script(string(data)), nil
}

func init() {
	runCmd.Flags().StringVarP(&evalSource, "eval", "e", "", "Program text to run instead of a script file")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the final state as JSON")
	runCmd.Flags().BoolVar(&showVars, "vars", false, "Print the variables after the run")
	runCmd.Flags().StringVar(&stateDir, "save-state", "", "Directory to save the final state snapshot in")
	runCmd.Flags().StringVar(&loadState, "load-state", "", "Snapshot file to continue from instead of a fresh turtle")

	rootCmd.AddCommand(runCmd)
}
