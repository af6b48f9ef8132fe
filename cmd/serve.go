package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zhelev-dev/docview/internal/server"
	"github.com/zhelev-dev/docview/internal/store"
	"github.com/zhelev-dev/docview/internal/watch"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documentation corpus locally",
	Long: `Starts the docview server: the embedded shell at /, the JSON API
under /api, raw documents under /content/, and a websocket live-reload
channel at /ws. Edits to the corpus evict the affected caches and
reload connected viewers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}

		v, db, cleanup, err := buildViewer(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		srv := server.New(server.Config{
			Port:       cfg.Port,
			ContentDir: cfg.ContentDir,
			AllowAll:   true,
		}, v, store.NewPrefs(db))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Watch the corpus for edits when it is local.
		if cfg.ContentDir != "" {
			w := watch.New(cfg.ContentDir, func(path string) {
				v.Invalidate(path)
				srv.Hub().Broadcast(path)
			})
			go func() {
				if err := w.Run(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: watcher failed: %v\n", err)
				}
			}()
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down...")
			srv.Shutdown(context.Background())
		}()

		url := fmt.Sprintf("http://localhost:%d/", cfg.Port)
		fmt.Fprintf(os.Stderr, "docview v%s serving on %s\n", Version, url)
		if cfg.OpenBrowser {
			if err := openBrowser(url); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not open browser: %v\n", err)
			}
		}

		err = srv.Start()
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
