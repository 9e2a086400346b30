// Package fetcher downloads a video with yt-dlp, capped at a maximum frame
// height, and fetches its thumbnail re-encoded as JPEG.
//
// Every failure is reported as services.ErrFetch with the cause attached.
// The fetcher writes only inside the work directory it is given; removing
// that directory is the caller's responsibility.
package fetcher
