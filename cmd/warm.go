package cmd

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zhelev-dev/docview/internal/progress"
)

var warmConcurrency int

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-render the whole corpus into the caches",
	Long: `Fetches and renders every configured document so that first
navigation is a cache hit. Failures are reported per document and do
not stop the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		v, _, cleanup, err := buildViewer(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		type docRef struct {
			sectionID string
			docID     string
			frag      string
		}
		var docs []docRef
		for _, sec := range v.Index().Sections() {
			for _, d := range sec.Docs {
				docs = append(docs, docRef{sec.ID, d, sec.ID + "/" + d})
			}
		}
		if len(docs) == 0 {
			fmt.Fprintln(os.Stderr, "Nothing to warm: no documents found.")
			return nil
		}

		reporter := progress.NewReporter()
		reporter.Start(len(docs))

		var done atomic.Int64
		var failed atomic.Int64

		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(warmConcurrency)
		for _, d := range docs {
			g.Go(func() error {
				if err := v.Warm(ctx, d.sectionID, d.docID); err != nil {
					failed.Add(1)
					fmt.Fprintf(os.Stderr, "\n%s: %v\n", d.frag, err)
				}
				reporter.Update(int(done.Add(1)), d.frag)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		reporter.Finish()

		fmt.Fprintf(os.Stderr, "Warmed %d document(s), %d failed.\n",
			int64(len(docs))-failed.Load(), failed.Load())
		return nil
	},
}

func init() {
	warmCmd.Flags().IntVar(&warmConcurrency, "concurrency", 4, "max parallel renders")
	rootCmd.AddCommand(warmCmd)
}
