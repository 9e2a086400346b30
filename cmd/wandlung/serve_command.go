package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"wandlung/internal/blob/local"
	"wandlung/internal/httpapi"
	"wandlung/internal/logging"
	"wandlung/internal/staging"
)

const (
	staleWorkDirAge    = 24 * time.Hour
	staleSweepInterval = time.Hour
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := cmd.Context()
			sess, err := ctx.openSession(runCtx)
			if err != nil {
				return err
			}
			defer sess.Close()

			lockPath := filepath.Join(sess.cfg.Paths.DataDir, "wandlung.lock")
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another wandlung server is already running")
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					sess.logger.Warn("release server lock failed", logging.Error(err))
				}
			}()

			address := strings.TrimSpace(bind)
			if address == "" {
				address = sess.cfg.Paths.APIBind
			}

			var media httpapi.MediaStore
			if store, ok := sess.blobs.(*local.Store); ok {
				media = store
			}
			server := httpapi.New(address, sess.pipe, media, sess.logger)

			sess.logger.Info("wandlung server starting",
				logging.String("lock", lockPath),
				logging.String("storage_backend", sess.cfg.Storage.Backend),
			)

			g, gctx := errgroup.WithContext(runCtx)
			g.Go(func() error { return server.Run(gctx) })
			g.Go(func() error {
				sweepStaging(gctx, sess.cfg.Paths.StagingDir, sess.logger)
				return nil
			})
			err = g.Wait()
			if err == nil || errors.Is(err, context.Canceled) {
				sess.logger.Info("wandlung server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to paths.api_bind)")
	return cmd
}

// sweepStaging removes abandoned work directories at startup and then
// periodically until ctx ends.
func sweepStaging(ctx context.Context, dir string, logger *slog.Logger) {
	logger = logging.NewComponentLogger(logger, "staging")
	ticker := time.NewTicker(staleSweepInterval)
	defer ticker.Stop()
	for {
		report := staging.Sweep(ctx, dir, staleWorkDirAge)
		if len(report.Removed) > 0 {
			logger.Info("removed stale work directories",
				logging.Int("count", len(report.Removed)),
				logging.Int64("bytes_freed", report.Freed()),
				logging.String(logging.FieldEventType, "staging_cleanup"),
			)
		}
		for _, failure := range report.Failures {
			logging.WarnWithContext(logger, "stale work directory cleanup failed", "staging_cleanup_failed",
				logging.String("path", failure.Path),
				logging.Error(failure.Err),
				logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
