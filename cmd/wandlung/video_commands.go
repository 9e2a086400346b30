package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wandlung/internal/pipeline"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:     "video",
		Aliases: []string{"videos"},
		Short:   "Fetch, inspect and remove videos",
	}

	videoCmd.AddCommand(newVideoDownloadCommand(ctx))
	videoCmd.AddCommand(newVideoListCommand(ctx))
	videoCmd.AddCommand(newVideoRecentCommand(ctx))
	videoCmd.AddCommand(newVideoShowCommand(ctx))
	videoCmd.AddCommand(newVideoTranscribeCommand(ctx))
	videoCmd.AddCommand(newVideoDeleteCommand(ctx))

	return videoCmd
}

func newVideoDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download <url>",
		Short: "Fetch a video, its thumbnail and audio track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				video, err := pipe.Download(runCtx, args[0])
				if err != nil {
					return err
				}
				return ctx.render(cmd, video, func() string { return renderVideo(video) })
			})
		},
	}
}

func newVideoListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored videos, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				videos, err := pipe.ListVideos(runCtx, limit)
				if err != nil {
					return err
				}
				return renderVideoList(ctx, cmd, videos)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of videos to list (0 for all)")
	return cmd
}

func newVideoRecentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: fmt.Sprintf("List the %d most recent videos", pipeline.RecentLimit),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				videos, err := pipe.RecentVideos(runCtx)
				if err != nil {
					return err
				}
				return renderVideoList(ctx, cmd, videos)
			})
		},
	}
}

func newVideoShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <video-id>",
		Short: "Show a video and its subtitle tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				video, err := pipe.GetVideo(runCtx, args[0])
				if err != nil {
					return err
				}
				return ctx.render(cmd, video, func() string { return renderVideo(video) })
			})
		},
	}
}

func newVideoTranscribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <video-id>",
		Short: "Transcribe a video's audio into a subtitle track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				track, err := pipe.Transcribe(runCtx, args[0])
				if err != nil {
					return err
				}
				return ctx.render(cmd, track, func() string { return renderTrack(track, false) })
			})
		},
	}
}

func newVideoDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <video-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a video, its subtitle tracks and stored media",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd, func(runCtx context.Context, pipe *pipeline.Pipeline) error {
				if err := pipe.DeleteVideo(runCtx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted video %s\n", args[0])
				return nil
			})
		},
	}
}

func renderVideoList(ctx *commandContext, cmd *cobra.Command, videos []pipeline.Video) error {
	if videos == nil {
		videos = []pipeline.Video{}
	}
	return ctx.render(cmd, videos, func() string {
		if len(videos) == 0 {
			return "No videos"
		}
		rows := make([][]string, 0, len(videos))
		for _, v := range videos {
			rows = append(rows, []string{
				v.VideoID,
				v.Title,
				formatDuration(v.Duration),
				resolution(v.Width, v.Height),
				formatTime(v.CreatedAt),
			})
		}
		return renderTable(
			[]string{"ID", "Title", "Duration", "Size", "Added"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		)
	})
}

func renderVideo(v *pipeline.Video) string {
	out := renderPairs([][2]string{
		{"ID", v.VideoID},
		{"Title", v.Title},
		{"Source", v.SourceURL},
		{"Duration", formatDuration(v.Duration)},
		{"Size", resolution(v.Width, v.Height)},
		{"Audio", yesNo(v.AudioURL != "")},
		{"Added", formatTime(v.CreatedAt)},
	})
	if len(v.Subtitles) == 0 {
		return out
	}
	rows := make([][]string, 0, len(v.Subtitles))
	for _, s := range v.Subtitles {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Language,
			yesNo(s.IsTranscribed),
			strconv.Itoa(s.Cues),
		})
	}
	return out + "\n" + renderTable(
		[]string{"Track", "Language", "Transcribed", "Cues"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	)
}

func resolution(width, height int) string {
	if width <= 0 || height <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dx%d", width, height)
}
