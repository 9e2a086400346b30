package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wandlung/internal/fileutil"
	"wandlung/internal/pipeline"
	"wandlung/internal/store"
)

func newSubtitleCommand(ctx *commandContext) *cobra.Command {
	subtitleCmd := &cobra.Command{
		Use:     "subtitle",
		Aliases: []string{"subtitles", "sub"},
		Short:   "Inspect, edit, translate and burn subtitle tracks",
	}

	subtitleCmd.AddCommand(newSubtitleListCommand(ctx))
	subtitleCmd.AddCommand(newSubtitleShowCommand(ctx))
	subtitleCmd.AddCommand(newSubtitleVTTCommand(ctx))
	subtitleCmd.AddCommand(newSubtitleEditCommand(ctx))
	subtitleCmd.AddCommand(newSubtitleDeleteCommand(ctx))
	subtitleCmd.AddCommand(newSubtitleTranslateCommand(ctx))
	subtitleCmd.AddCommand(newSubtitleBurnCommand(ctx))

	return subtitleCmd
}

func newSubtitleListCommand(ctx *commandContext) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List subtitle tracks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				result, err := pipe.ListTracks(runCtx, store.Page{Number: page, Size: pageSize})
				if err != nil {
					return err
				}
				return ctx.render(cmd, result, func() string { return renderTrackPage(result) })
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Tracks per page")
	return cmd
}

func newSubtitleShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <subtitle-id>",
		Short: "Show a subtitle track with its SRT content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTrackID(args[0])
			if err != nil {
				return err
			}
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				track, err := pipe.GetTrack(runCtx, id)
				if err != nil {
					return err
				}
				return ctx.render(cmd, track, func() string { return renderTrack(track, true) })
			})
		},
	}
}

func newSubtitleVTTCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "vtt <subtitle-id>",
		Short: "Print a subtitle track as WebVTT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTrackID(args[0])
			if err != nil {
				return err
			}
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				vtt, err := pipe.WebVTT(runCtx, id)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), vtt)
				return err
			})
		},
	}
}

func newSubtitleEditCommand(ctx *commandContext) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "edit <subtitle-id>",
		Short: "Replace a track's SRT content from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTrackID(args[0])
			if err != nil {
				return err
			}
			content, err := readContent(cmd, source)
			if err != nil {
				return err
			}
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				track, err := pipe.UpdateTrack(runCtx, id, content)
				if err != nil {
					return err
				}
				return ctx.render(cmd, track, func() string { return renderTrack(track, false) })
			})
		},
	}

	cmd.Flags().StringVarP(&source, "file", "f", "-", "SRT file to read (- for stdin)")
	return cmd
}

func newSubtitleDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <subtitle-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a subtitle track",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTrackID(args[0])
			if err != nil {
				return err
			}
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				if err := pipe.DeleteTrack(runCtx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted subtitle %d\n", id)
				return nil
			})
		},
	}
}

func newSubtitleTranslateCommand(ctx *commandContext) *cobra.Command {
	var target string
	var temperature float64

	cmd := &cobra.Command{
		Use:   "translate <subtitle-id>",
		Short: "Translate a track into another language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTrackID(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(target) == "" {
				return fmt.Errorf("--to is required")
			}
			req := pipeline.TranslateRequest{TargetLanguage: target}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &temperature
			}
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				result, err := pipe.Translate(runCtx, id, req)
				if err != nil {
					return err
				}
				return ctx.render(cmd, result, func() string {
					return renderTrack(&result.Track, false) + fmt.Sprintf("\n%d turn(s), outcome %s", result.Turns, result.Outcome)
				})
			})
		},
	}

	cmd.Flags().StringVar(&target, "to", "", "Target language (name or ISO code)")
	cmd.Flags().Float64Var(&temperature, "temperature", 1.0, "Sampling temperature between 0 and 1")
	return cmd
}

func newSubtitleBurnCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var start, end float64

	cmd := &cobra.Command{
		Use:   "burn <subtitle-id>",
		Short: "Render a track into its video and save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTrackID(args[0])
			if err != nil {
				return err
			}
			var req pipeline.BurnRequest
			if cmd.Flags().Changed("start") {
				req.StartSeconds = &start
			}
			if cmd.Flags().Changed("end") {
				req.EndSeconds = &end
			}
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				out, err := pipe.Burn(runCtx, id, req)
				if err != nil {
					return err
				}
				defer out.Close()

				target := strings.TrimSpace(outPath)
				if target == "" {
					target = out.Name
				}
				if info, err := os.Stat(target); err == nil && info.IsDir() {
					target = filepath.Join(target, out.Name)
				}
				written, err := fileutil.CopyToFile(out, target)
				if err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", target, written)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "O", "", "Output file or directory (defaults to the generated name in the working directory)")
	cmd.Flags().Float64Var(&start, "start", 0, "Start of the rendered window in seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "End of the rendered window in seconds")
	return cmd
}

func renderTrackPage(page *pipeline.TrackPage) string {
	if len(page.Items) == 0 {
		return "No subtitle tracks"
	}
	rows := make([][]string, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.VideoID,
			item.Language,
			yesNo(item.IsTranscribed),
			strconv.Itoa(item.Cues),
		})
	}
	table := renderTable(
		[]string{"ID", "Video", "Language", "Transcribed", "Cues"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	)
	return table + fmt.Sprintf("\nPage %d (%d per page), %d track(s) total", page.Page, page.PageSize, page.Count)
}

func renderTrack(track *pipeline.Track, withContent bool) string {
	out := renderPairs([][2]string{
		{"ID", strconv.FormatInt(track.ID, 10)},
		{"Video", fmt.Sprintf("%s (%s)", track.VideoTitle, track.VideoID)},
		{"Language", track.Language},
		{"Transcribed", yesNo(track.IsTranscribed)},
		{"Cues", strconv.Itoa(track.Cues)},
		{"Updated", formatTime(track.UpdatedAt)},
	})
	if withContent {
		out += "\n\n" + strings.TrimRight(track.Content, "\n")
	}
	return out
}

func parseTrackID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subtitle id %q", raw)
	}
	return id, nil
}

func readContent(cmd *cobra.Command, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" || source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	return string(data), nil
}
