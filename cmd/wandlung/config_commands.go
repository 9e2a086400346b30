package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wandlung/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := sampleTarget(targetPath)
			if err != nil {
				return err
			}
			if err := writeSample(target, overwrite); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set storage.signing_key (or export WANDLUNG_SIGNING_KEY) before running wandlung.")
			fmt.Fprintln(out, "Provider keys are kept in settings: see `wandlung settings set --help`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func sampleTarget(flagValue string) (string, error) {
	if raw := strings.TrimSpace(flagValue); raw != "" {
		path, err := config.ExpandPath(raw)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return path, nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return path, nil
}

func writeSample(target string, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if !overwrite {
		_, err := os.Stat(target)
		switch {
		case err == nil:
			return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("check config path: %w", err)
		}
	}
	if err := config.CreateSample(target); err != nil {
		return fmt.Errorf("create sample config: %w", err)
	}
	return nil
}

type configReport struct {
	Path           string `json:"path" yaml:"path"`
	FileExists     bool   `json:"file_exists" yaml:"file_exists"`
	StorageBackend string `json:"storage_backend" yaml:"storage_backend"`
	StagingDir     string `json:"staging_dir" yaml:"staging_dir"`
	DataDir        string `json:"data_dir" yaml:"data_dir"`
	APIBind        string `json:"api_bind" yaml:"api_bind"`
	Notifications  bool   `json:"notifications" yaml:"notifications"`
	Valid          bool   `json:"valid" yaml:"valid"`
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and create its directories",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			report := configReport{
				Path:           path,
				FileExists:     exists,
				StorageBackend: cfg.Storage.Backend,
				StagingDir:     cfg.Paths.StagingDir,
				DataDir:        cfg.Paths.DataDir,
				APIBind:        cfg.Paths.APIBind,
				Notifications:  cfg.Notifications.NtfyTopic != "",
				Valid:          true,
			}
			return ctx.render(cmd, report, func() string {
				pairs := [][2]string{
					{"Config path", report.Path},
					{"Storage backend", report.StorageBackend},
					{"Staging directory", report.StagingDir},
					{"Data directory", report.DataDir},
					{"API bind", report.APIBind},
					{"Notifications", yesNo(report.Notifications)},
				}
				if !report.FileExists {
					pairs = append(pairs, [2]string{"Note", "file not found, defaults used"})
				}
				return renderPairs(pairs)
			})
		},
	}
}
