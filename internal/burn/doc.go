// Package burn renders a subtitle track into the picture of a video with
// ffmpeg's subtitles filter, optionally trimmed to a time window.
//
// The source video and SRT are materialized into a private work directory,
// deleted as soon as ffmpeg exits, and the result is handed back as an
// Output stream. Closing the Output removes the rendered file and the work
// directory and runs any release hooks, so no transient file outlives the
// operation whether the consumer reads to the end or gives up early.
package burn
