package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/itsmostafa/goturtle/internal/interp"
	"github.com/itsmostafa/goturtle/internal/render"
	"github.com/itsmostafa/goturtle/internal/session"
)

var jobs int
var batchStateDir string

// batchResult is the outcome of one script.
type batchResult struct {
	name string
	snap *session.Snapshot
	err  error
}

var batchCmd = &cobra.Command{
	Use:   "batch <script>...",
	Short: "Run several scripts concurrently",
	Long: `Run each script in its own session, several at a time, and print a summary
per script in the order given. Exits non-zero if any script could not be
read or was cut short by a limit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log := newLogger(cmd)
		manager := session.NewManager(cfg, log)
		var store *session.Store
		if batchStateDir != "" {
			store = session.NewStore(batchStateDir)
		}

		results := make([]batchResult, len(args))
		g, ctx := errgroup.WithContext(cmd.Context())
		if jobs > 0 {
			g.SetLimit(jobs)
		}

		for i, path := range args {
			g.Go(func() error {
				res := batchResult{name: filepath.Base(path)}
				defer func() { results[i] = res }()

				data, err := os.ReadFile(path)
				if err != nil {
					res.err = fmt.Errorf("failed to read script: %w", err)
					return nil
				}

				s := manager.Create()
				defer manager.Remove(s.ID)

				res.err = manager.Run(ctx, s.ID, interp.Script(string(data)))
				res.snap = s.Snapshot()
				if store != nil {
					if _, err := store.Save(res.snap); err != nil {
						return err
					}
				}
				log.WithFields(logrus.Fields{
					"script":  path,
					"session": s.ID,
					"live":    manager.Len(),
				}).Debug("script finished")
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, res := range results {
			if res.err != nil {
				failed++
			}
			if res.snap == nil {
				render.FormatRunError(out, fmt.Errorf("%s: %w", res.name, res.err))
				continue
			}
			render.FormatSessionSummary(out, res.name, res.snap, res.err)
		}
		render.FormatBatchTotals(out, len(results), failed)

		if failed > 0 {
			return fmt.Errorf("%d of %d scripts failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Number of scripts to run at once (0 = unlimited)")
	batchCmd.Flags().StringVar(&batchStateDir, "save-state", "", "Directory to save each script's final state snapshot in")

	rootCmd.AddCommand(batchCmd)
}
