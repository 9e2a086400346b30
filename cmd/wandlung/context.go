package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"wandlung/internal/blob"
	"wandlung/internal/config"
	"wandlung/internal/logging"
	"wandlung/internal/pipeline"
	"wandlung/internal/store"
)

type commandContext struct {
	configFlag *string
	outputFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	// pipelineOptions is extended by tests to stub external tools.
	pipelineOptions []pipeline.Option
}

func newCommandContext(configFlag, outputFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		outputFlag: outputFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// session is the opened database, blob store and pipeline for one command.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	blobs  blob.Provider
	pipe   *pipeline.Pipeline
}

func (s *session) Close() error {
	return s.store.Close()
}

func (c *commandContext) openSession(ctx context.Context) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	blobs, err := blob.New(ctx, cfg)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("open blob storage: %w", err)
	}
	return &session{
		cfg:    cfg,
		logger: logger,
		store:  st,
		blobs:  blobs,
		pipe:   pipeline.New(cfg, st, blobs, logger, c.pipelineOptions...),
	}, nil
}

// withPipeline opens the runtime for the duration of fn.
func (c *commandContext) withPipeline(cmd *cobra.Command, fn func(context.Context, *pipeline.Pipeline) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(ctx, sess.pipe)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
