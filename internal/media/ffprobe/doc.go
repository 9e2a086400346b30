// Package ffprobe wraps the ffprobe CLI to read container duration, frame
// size, and stream layout. The fetcher uses it when yt-dlp metadata omits
// dimensions or duration, and the burner uses it to default the trim end.
package ffprobe
