package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp" // register decoder

	"wandlung/internal/fileutil"
)

const thumbnailQuality = 90

// downloadThumbnail fetches url, decodes it, and writes a JPEG to target.
func (f *Fetcher) downloadThumbnail(ctx context.Context, url, target string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("no thumbnail url in metadata")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxThumbnail+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > f.maxThumbnail {
		return fmt.Errorf("thumbnail exceeds %d bytes", f.maxThumbnail)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	var encoded bytes.Buffer
	if format == "jpeg" {
		encoded.Write(data)
	} else if err := jpeg.Encode(&encoded, img, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := fileutil.WriteFileAtomic(target, encoded.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}
	return nil
}
