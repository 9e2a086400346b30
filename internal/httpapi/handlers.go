package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"wandlung/internal/blob"
	"wandlung/internal/blob/local"
	"wandlung/internal/pipeline"
	"wandlung/internal/preflight"
	"wandlung/internal/store"
)

type handlers struct {
	pipe  Pipeline
	media MediaStore
}

func (h *handlers) register(e *echo.Echo) {
	api := e.Group("/api")

	videos := api.Group("/videos")
	videos.POST("/download", h.download)
	videos.GET("", h.listVideos)
	videos.GET("/recent", h.recentVideos)
	videos.GET("/:id", h.getVideo)
	videos.POST("/:id/transcribe", h.transcribe)
	videos.DELETE("/:id", h.deleteVideo)

	subs := api.Group("/subtitles")
	subs.GET("", h.listSubtitles)
	subs.GET("/:id", h.getSubtitle)
	subs.PUT("/:id", h.updateSubtitle)
	subs.DELETE("/:id", h.deleteSubtitle)
	subs.POST("/:id/translate", h.translate)
	subs.POST("/:id/burn", h.burn)

	api.GET("/settings", h.getSettings)
	api.POST("/settings", h.updateSettings)
	api.GET("/health", h.health)

	if h.media != nil {
		e.GET(local.MediaPrefix+"*", h.serveMedia)
	}
}

type downloadRequest struct {
	URL string `json:"url"`
}

func (h *handlers) download(c echo.Context) error {
	var req downloadRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if strings.TrimSpace(req.URL) == "" {
		return badRequest("url is required")
	}
	video, err := h.pipe.Download(c.Request().Context(), req.URL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, video)
}

func (h *handlers) listVideos(c echo.Context) error {
	videos, err := h.pipe.ListVideos(c.Request().Context(), 0)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(videos))
}

func (h *handlers) recentVideos(c echo.Context) error {
	videos, err := h.pipe.RecentVideos(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(videos))
}

func (h *handlers) getVideo(c echo.Context) error {
	video, err := h.pipe.GetVideo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, video)
}

func (h *handlers) transcribe(c echo.Context) error {
	track, err := h.pipe.Transcribe(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, track)
}

func (h *handlers) deleteVideo(c echo.Context) error {
	if err := h.pipe.DeleteVideo(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) listSubtitles(c echo.Context) error {
	page := store.Page{}
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest("page must be a positive integer")
		}
		page.Number = n
	}
	if raw := c.QueryParam("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest("page_size must be a positive integer")
		}
		page.Size = n
	}
	result, err := h.pipe.ListTracks(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// getSubtitle also answers /api/subtitles/<id>.vtt with the WebVTT rendering.
func (h *handlers) getSubtitle(c echo.Context) error {
	raw := c.Param("id")
	if trimmed, ok := strings.CutSuffix(raw, ".vtt"); ok {
		id, err := parseID(trimmed)
		if err != nil {
			return err
		}
		vtt, err := h.pipe.WebVTT(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "text/vtt; charset=utf-8", []byte(vtt))
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	track, err := h.pipe.GetTrack(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, track)
}

type updateSubtitleRequest struct {
	Content string `json:"content"`
}

func (h *handlers) updateSubtitle(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	var req updateSubtitleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	track, err := h.pipe.UpdateTrack(c.Request().Context(), id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, track)
}

func (h *handlers) deleteSubtitle(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	if err := h.pipe.DeleteTrack(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) translate(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	var req pipeline.TranslateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if strings.TrimSpace(req.TargetLanguage) == "" {
		return badRequest("target_language is required")
	}
	result, err := h.pipe.Translate(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *handlers) burn(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	var req pipeline.BurnRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	out, err := h.pipe.Burn(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	defer out.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out.Name))
	header.Set(echo.HeaderContentLength, strconv.FormatInt(out.Size, 10))
	return c.Stream(http.StatusOK, "video/mp4", out)
}

func (h *handlers) getSettings(c echo.Context) error {
	settings, err := h.pipe.Settings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *handlers) updateSettings(c echo.Context) error {
	var update pipeline.SettingsUpdate
	if err := c.Bind(&update); err != nil {
		return badRequest("invalid request body")
	}
	settings, err := h.pipe.UpdateSettings(c.Request().Context(), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// HealthResponse reports the preflight checks.
type HealthResponse struct {
	OK     bool               `json:"ok"`
	Checks []preflight.Result `json:"checks"`
}

func (h *handlers) health(c echo.Context) error {
	reach := c.QueryParam("reachability") == "true"
	results := h.pipe.Health(c.Request().Context(), reach)
	return c.JSON(http.StatusOK, HealthResponse{OK: len(preflight.Failed(results)) == 0, Checks: results})
}

func (h *handlers) serveMedia(c echo.Context) error {
	key := c.Param("*")
	if err := h.media.Verify(key, c.QueryParam("token")); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "invalid or expired link")
	}
	rc, err := h.media.Open(c.Request().Context(), key)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentType, blob.ContentType(key))
	if seeker, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(c.Response(), c.Request(), "", time.Time{}, seeker)
		return nil
	}
	return c.Stream(http.StatusOK, blob.ContentType(key), rc)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid subtitle id")
	}
	return id, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
