// Package httpapi exposes the pipeline over HTTP using echo.
//
// Routes live under /api. When blobs are kept on local disk, /media/* serves
// them to holders of a signed link.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"wandlung/internal/burn"
	"wandlung/internal/logging"
	"wandlung/internal/pipeline"
	"wandlung/internal/preflight"
	"wandlung/internal/services"
	"wandlung/internal/store"
)

// Pipeline is the set of operations the API serves.
type Pipeline interface {
	Download(ctx context.Context, url string) (*pipeline.Video, error)
	ListVideos(ctx context.Context, limit int) ([]pipeline.Video, error)
	RecentVideos(ctx context.Context) ([]pipeline.Video, error)
	GetVideo(ctx context.Context, videoID string) (*pipeline.Video, error)
	DeleteVideo(ctx context.Context, videoID string) error
	Transcribe(ctx context.Context, videoID string) (*pipeline.Track, error)

	ListTracks(ctx context.Context, page store.Page) (*pipeline.TrackPage, error)
	GetTrack(ctx context.Context, id int64) (*pipeline.Track, error)
	WebVTT(ctx context.Context, id int64) (string, error)
	UpdateTrack(ctx context.Context, id int64, content string) (*pipeline.Track, error)
	DeleteTrack(ctx context.Context, id int64) error
	Translate(ctx context.Context, id int64, req pipeline.TranslateRequest) (*pipeline.Translation, error)
	Burn(ctx context.Context, id int64, req pipeline.BurnRequest) (*burn.Output, error)

	Settings(ctx context.Context) (*store.Settings, error)
	UpdateSettings(ctx context.Context, update pipeline.SettingsUpdate) (*store.Settings, error)
	Health(ctx context.Context, checkReachability bool) []preflight.Result
}

var _ Pipeline = (*pipeline.Pipeline)(nil)

// MediaStore serves blobs behind signed links.
type MediaStore interface {
	Verify(key, token string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Server is the HTTP front end.
type Server struct {
	echo   *echo.Echo
	bind   string
	logger *slog.Logger
}

// New builds the server. media may be nil when blobs are not served locally.
func New(bind string, pipe Pipeline, media MediaStore, logger *slog.Logger) *Server {
	logger = logging.NewComponentLogger(logger, "httpapi")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestContext)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				logging.String("method", v.Method),
				logging.String("uri", v.URI),
				logging.Int("status", v.Status),
				logging.Duration("latency", v.Latency),
				logging.String(logging.FieldCorrelationID, v.RequestID),
			)
			return nil
		},
	}))

	h := &handlers{pipe: pipe, media: media}
	h.register(e)

	return &Server{echo: e, bind: strings.TrimSpace(bind), logger: logger}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.echo.Listener = listener
	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start("")
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestContext carries the request id into the context so pipeline logs
// share it.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		if id != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(services.WithRequestID(req.Context(), id)))
		}
		return next(c)
	}
}
