package pipeline

import (
	"context"
	"fmt"

	"wandlung/internal/burn"
	"wandlung/internal/logging"
	"wandlung/internal/services"
)

// BurnRequest selects the time window of the rendered clip. Nil bounds mean
// the start and end of the video.
type BurnRequest struct {
	StartSeconds *float64 `json:"start_seconds,omitempty"`
	EndSeconds   *float64 `json:"end_seconds,omitempty"`
}

// Burn renders a track into the picture of its video. The asset stays locked
// until the returned stream is closed; closing it also removes every
// transient file.
func (p *Pipeline) Burn(ctx context.Context, subtitleID int64, req BurnRequest) (*burn.Output, error) {
	ctx, _ = p.begin(services.WithSubtitleID(ctx, subtitleID), "burn")
	sub, err := p.requireSubtitle(ctx, subtitleID)
	if err != nil {
		return nil, err
	}
	asset, err := p.requireAsset(ctx, sub.VideoID)
	if err != nil {
		return nil, err
	}
	ctx = services.WithAssetID(ctx, asset.VideoID)
	logger := logging.WithContext(ctx, p.logger)

	release, err := p.acquire(logger, asset.VideoID)
	if err != nil {
		return nil, err
	}

	video, err := p.blobs.Open(ctx, asset.VideoKey)
	if err != nil {
		release()
		return nil, services.Wrap(services.ErrBurn, "burn", "load video", asset.VideoKey, err)
	}
	defer video.Close()

	out, err := p.burner.Burn(ctx, burn.Request{
		Name:     fmt.Sprintf("%s-with-%d", asset.VideoID, sub.ID),
		Video:    video,
		Subtitle: sub.Content,
		Start:    req.StartSeconds,
		End:      req.EndSeconds,
		Duration: asset.Duration,
	})
	if err != nil {
		release()
		return nil, err
	}
	out.OnClose(release)
	return out, nil
}
