package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/itsmostafa/goturtle/internal/interp"
	"github.com/itsmostafa/goturtle/internal/render"
	"github.com/itsmostafa/goturtle/internal/session"
)

const (
	historyFile = ".goturtle_history"
	promptMain  = "turtle> "
	promptCont  = "   ...> "
)

const replBanner = `goturtle interactive mode
Statements run as you enter them. Variables persist between lines.
Meta commands: :state  :vars  :eval <expr>  :reset  :save <dir>  :load <dir> <id>  :quit`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long: `Start an interactive session. Each line is run against the same turtle,
and variables set on one line are visible on the next. A line that opens a
block with "{" continues until the braces balance.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		s := session.New(cfg, newLogger(cmd))
		s.KeepVariables()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, replBanner)

		home, _ := os.UserHomeDir()
		histPath := filepath.Join(home, historyFile)

		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()

		for {
			code, ok := readStatement(ln)
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

			if strings.HasPrefix(code, ":") {
				if quit := handleMeta(out, s, code); quit {
					return nil
				}
				continue
			}

			mark := s.HistoryMark()
			runErr := s.Run(cmd.Context(), interp.Script(code))
			render.FormatLines(out, s.HistorySince(mark))
			if runErr != nil && errors.Is(runErr, interp.ErrCancelled) {
				return nil
			}
		}
	},
}

// handleMeta runs a ':' command and reports whether the REPL should exit.
func handleMeta(out io.Writer, s *session.Session, code string) bool {
	fields := strings.Fields(code)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q", ":exit":
		return true
	case ":state":
		render.FormatHeader(out, s.Snapshot())
	case ":vars":
		render.FormatVariables(out, s.Snapshot().Variables)
	case ":eval":
		expr := strings.TrimSpace(strings.TrimPrefix(code, fields[0]))
		if expr == "" {
			fmt.Fprintln(out, "usage: :eval <expr>")
			return false
		}
		mark := s.HistoryMark()
		v := s.Eval(expr)
		render.FormatLines(out, s.HistorySince(mark))
		fmt.Fprintln(out, "=", interp.NumberValue(v))
	case ":reset":
		s.Reset()
		fmt.Fprintln(out, "turtle and variables reset")
	case ":save":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: :save <dir>")
			return false
		}
		path, err := session.NewStore(fields[1]).Save(s.Snapshot())
		if err != nil {
			render.FormatRunError(out, err)
			return false
		}
		fmt.Fprintln(out, "state saved to", path)
	case ":load":
		if len(fields) != 3 {
			fmt.Fprintln(out, "usage: :load <dir> <id>")
			return false
		}
		snap, err := session.NewStore(fields[1]).Load(fields[2])
		if err == nil {
			err = s.Restore(snap)
		}
		if err != nil {
			render.FormatRunError(out, err)
			return false
		}
		render.FormatHeader(out, s.Snapshot())
	default:
		fmt.Fprintln(out, "unknown command. Type :quit to exit.")
	}
	return false
}

// readStatement reads one line, or several while a block is left open.
// It returns false on EOF.
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, dropped := interp.Chain(interp.Script(src)); dropped == "" {
			return src, true
		}
	}
}

func init() {
	rootCmd.AddCommand(replCmd)
}
