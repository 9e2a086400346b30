package main

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"wandlung/internal/pipeline"
	"wandlung/internal/store"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change provider keys and media choices",
	}

	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))

	return settingsCmd
}

// settingsView hides provider keys unless explicitly requested.
type settingsView struct {
	OpenAIAPIKey    string    `json:"openai_api_key" yaml:"openai_api_key"`
	AnthropicAPIKey string    `json:"anthropic_api_key" yaml:"anthropic_api_key"`
	MaxVideoHeight  int       `json:"max_video_height" yaml:"max_video_height"`
	UseHEAACv2      bool      `json:"use_he_aac_v2" yaml:"use_he_aac_v2"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
}

func newSettingsView(s *store.Settings, reveal bool) settingsView {
	mask := maskKey
	if reveal {
		mask = func(v string) string { return v }
	}
	return settingsView{
		OpenAIAPIKey:    mask(s.OpenAIAPIKey),
		AnthropicAPIKey: mask(s.AnthropicAPIKey),
		MaxVideoHeight:  s.MaxVideoHeight,
		UseHEAACv2:      s.UseHEAACv2,
		UpdatedAt:       s.UpdatedAt,
	}
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				settings, err := pipe.Settings(runCtx)
				if err != nil {
					return err
				}
				return renderSettings(ctx, cmd, newSettingsView(settings, reveal))
			})
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print provider keys in full")
	return cmd
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var openAIKey, anthropicKey string
	var maxHeight int
	var heAAC bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; unspecified fields keep their value",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var update pipeline.SettingsUpdate
			if flags.Changed("openai-key") {
				update.OpenAIAPIKey = &openAIKey
			}
			if flags.Changed("anthropic-key") {
				update.AnthropicAPIKey = &anthropicKey
			}
			if flags.Changed("max-height") {
				update.MaxVideoHeight = &maxHeight
			}
			if flags.Changed("he-aac") {
				update.UseHEAACv2 = &heAAC
			}
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				settings, err := pipe.UpdateSettings(runCtx, update)
				if err != nil {
					return err
				}
				return renderSettings(ctx, cmd, newSettingsView(settings, false))
			})
		},
	}

	cmd.Flags().StringVar(&openAIKey, "openai-key", "", "Transcription provider key (empty clears it)")
	cmd.Flags().StringVar(&anthropicKey, "anthropic-key", "", "Translation provider key (empty clears it)")
	cmd.Flags().IntVar(&maxHeight, "max-height", store.DefaultMaxVideoHeight, "Maximum fetched video height (240, 360, 480, 720 or 1080)")
	cmd.Flags().BoolVar(&heAAC, "he-aac", true, "Encode extracted audio as HE-AAC v2 instead of AAC-LC")
	return cmd
}

func renderSettings(ctx *commandContext, cmd *cobra.Command, view settingsView) error {
	return ctx.render(cmd, view, func() string {
		return renderPairs([][2]string{
			{"OpenAI key", orDash(view.OpenAIAPIKey)},
			{"Anthropic key", orDash(view.AnthropicAPIKey)},
			{"Max video height", strconv.Itoa(view.MaxVideoHeight)},
			{"HE-AAC v2", yesNo(view.UseHEAACv2)},
			{"Updated", formatTime(view.UpdatedAt)},
		})
	})
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
