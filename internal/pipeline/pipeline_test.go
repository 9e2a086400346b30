package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wandlung/internal/blob"
	"wandlung/internal/blob/local"
	"wandlung/internal/config"
	"wandlung/internal/services"
	"wandlung/internal/store"
	"wandlung/internal/subtitles"
	"wandlung/internal/testsupport"
)

const testVideoID = "vid001"

// fakeTools stands in for yt-dlp and ffmpeg: it writes the files the real
// tools would produce and records every invocation.
type fakeTools struct {
	thumbnailURL string

	mu        sync.Mutex
	calls     [][]string
	failAudio bool
}

func (f *fakeTools) Run(_ context.Context, binary string, args []string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{binary}, args...))
	failAudio := f.failAudio
	f.mu.Unlock()

	switch binary {
	case "yt-dlp":
		outIdx := slices.Index(args, "-o")
		path := filepath.Join(filepath.Dir(args[outIdx+1]), testVideoID+".mp4")
		if err := os.WriteFile(path, []byte("video-bytes"), 0o644); err != nil {
			return nil, err
		}
		return json.Marshal(map[string]any{
			"id":                  testVideoID,
			"title":               "Demo clip",
			"duration":            30.0,
			"width":               1280,
			"height":              720,
			"thumbnail":           f.thumbnailURL,
			"webpage_url":         "https://videos.example/watch?v=" + testVideoID,
			"requested_downloads": []any{map[string]any{"filepath": path}},
		})
	case "ffmpeg":
		if failAudio && slices.Contains(args, "-vn") {
			return nil, errors.New("exit status 1: encoder not found")
		}
		return nil, os.WriteFile(args[len(args)-1], []byte("ffmpeg-output"), 0o644)
	}
	return nil, fmt.Errorf("unexpected binary %s", binary)
}

func (f *fakeTools) callsFor(binary string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]string
	for _, call := range f.calls {
		if call[0] == binary {
			out = append(out, call[1:])
		}
	}
	return out
}

type harness struct {
	cfg   *config.Config
	store *store.Store
	blobs *local.Store
	tools *fakeTools
	sent  *recordingNotifier
	p     *Pipeline

	translateCalls atomic.Int32
	translateFail  atomic.Bool
	translateEmpty atomic.Bool
	transcribeHits atomic.Int32
}

type providerRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newHarness(t *testing.T, seed store.Settings) *harness {
	t.Helper()
	h := &harness{}

	mux := http.NewServeMux()
	mux.HandleFunc("/thumb.png", func(w http.ResponseWriter, r *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.Set(1, 1, color.RGBA{G: 255, A: 255})
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, img)
	})
	mux.HandleFunc("/openai/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		h.transcribeHits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"language": "english",
			"duration": 4.0,
			"segments": []any{
				map[string]any{"start": 0.0, "end": 1.5, "text": "Hello there."},
				map[string]any{"start": 2.0, "end": 4.0, "text": "General Kenobi."},
			},
		})
	})
	mux.HandleFunc("/anthropic/messages", func(w http.ResponseWriter, r *http.Request) {
		h.translateCalls.Add(1)
		if h.translateFail.Load() {
			http.Error(w, `{"type":"error"}`, http.StatusInternalServerError)
			return
		}
		var req providerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reply := batchReply(req, 10)
		if h.translateEmpty.Load() {
			reply = `{"text":"","command":"END"}`
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":     []any{map[string]any{"type": "text", "text": reply}},
			"stop_reason": "end_turn",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	h.cfg = testsupport.NewConfig(t,
		testsupport.WithTranslationBatch(10, 100),
		testsupport.WithProviderURLs(server.URL+"/openai", server.URL+"/anthropic"),
	)
	h.cfg.Translation.RequestsPerMinute = 0
	h.store = testsupport.MustOpenStore(t, h.cfg)

	blobs, err := local.New(h.cfg.Storage.LocalDir, h.cfg.Storage.PublicBaseURL, []byte(h.cfg.Storage.SigningKey))
	if err != nil {
		t.Fatalf("local.New: %v", err)
	}
	h.blobs = blobs
	h.tools = &fakeTools{thumbnailURL: server.URL + "/thumb.png"}
	h.sent = &recordingNotifier{}
	h.p = New(h.cfg, h.store, blobs, nil,
		WithExecutor(h.tools),
		WithNotifier(h.sent),
		WithHTTPClient(server.Client()),
		WithSeedSettings(seed),
	)
	return h
}

// batchReply answers like a model following the structured protocol: the
// n-th user turn gets the n-th batch of source cues.
func batchReply(req providerRequest, batch int) string {
	blocks := strings.Split(strings.TrimSpace(req.Messages[0].Content), "\n\n")
	turn := (len(req.Messages) + 1) / 2
	start := (turn - 1) * batch
	end := min(start+batch, len(blocks))
	translated := make([]string, 0, end-start)
	for _, block := range blocks[start:end] {
		translated = append(translated, strings.Replace(block, "line", "Zeile", 1))
	}
	command := "NEXT"
	if end == len(blocks) {
		command = "END"
	}
	encoded, _ := json.Marshal(map[string]string{"text": strings.Join(translated, "\n\n"), "command": command})
	return string(encoded)
}

func withKeys() store.Settings {
	settings := store.DefaultSettings()
	settings.OpenAIAPIKey = "sk-openai"
	settings.AnthropicAPIKey = "sk-anthropic"
	return settings
}

func srtWithEntries(n int) string {
	cues := make([]subtitles.Cue, 0, n)
	for i := range n {
		cues = append(cues, subtitles.Cue{
			Start: time.Duration(i) * time.Second,
			End:   time.Duration(i)*time.Second + 800*time.Millisecond,
			Text:  fmt.Sprintf("line %d", i+1),
		})
	}
	return subtitles.FormatSRT(cues)
}

func stagingEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read staging: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Name() != "locks" {
			names = append(names, entry.Name())
		}
	}
	return names
}

func requireKind(t *testing.T, err, marker error) {
	t.Helper()
	if !errors.Is(err, marker) {
		t.Fatalf("expected %v, got %v", marker, err)
	}
}

func TestDownloadStoresAssetAndBlobs(t *testing.T) {
	h := newHarness(t, withKeys())
	ctx := context.Background()

	video, err := h.p.Download(ctx, "https://videos.example/watch?v="+testVideoID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if video.VideoID != testVideoID || video.Title != "Demo clip" || video.Duration != 30 {
		t.Fatalf("unexpected view %+v", video)
	}
	if !strings.Contains(video.VideoURL, "/media/videos/"+testVideoID+".mp4?token=") {
		t.Fatalf("video url = %q", video.VideoURL)
	}
	if video.ThumbnailURL == "" || video.AudioURL == "" {
		t.Fatalf("expected signed thumbnail and audio urls: %+v", video)
	}

	asset, err := h.store.GetAsset(ctx, testVideoID)
	if err != nil || asset == nil {
		t.Fatalf("GetAsset: %v %v", asset, err)
	}
	for _, key := range []string{asset.VideoKey, asset.ThumbnailKey, asset.AudioKey} {
		rc, err := h.blobs.Open(ctx, key)
		if err != nil {
			t.Fatalf("open %s: %v", key, err)
		}
		_ = rc.Close()
	}

	fetches := h.tools.callsFor("yt-dlp")
	if len(fetches) != 1 || !slices.Contains(fetches[0], "bestvideo[height<=720]+bestaudio/best[height<=720]/best") {
		t.Fatalf("unexpected yt-dlp calls %v", fetches)
	}
	encodes := h.tools.callsFor("ffmpeg")
	if len(encodes) != 1 || !slices.Contains(encodes[0], "libfdk_aac") {
		t.Fatalf("expected HE-AAC v2 extraction, got %v", encodes)
	}
	if left := stagingEntries(t, h.cfg.Paths.StagingDir); len(left) != 0 {
		t.Fatalf("staging not cleaned: %v", left)
	}
}

func TestDownloadHonorsSettings(t *testing.T) {
	seed := withKeys()
	seed.MaxVideoHeight = 480
	seed.UseHEAACv2 = false
	h := newHarness(t, seed)

	if _, err := h.p.Download(context.Background(), "https://videos.example/x"); err != nil {
		t.Fatalf("Download: %v", err)
	}
	fetches := h.tools.callsFor("yt-dlp")
	if !slices.Contains(fetches[0], "bestvideo[height<=480]+bestaudio/best[height<=480]/best") {
		t.Fatalf("max height not applied: %v", fetches[0])
	}
	encodes := h.tools.callsFor("ffmpeg")
	if slices.Contains(encodes[0], "libfdk_aac") || !slices.Contains(encodes[0], "aac") {
		t.Fatalf("expected plain AAC, got %v", encodes[0])
	}
}

func TestDownloadRejectsDuplicate(t *testing.T) {
	h := newHarness(t, withKeys())
	ctx := context.Background()
	if _, err := h.p.Download(ctx, "https://videos.example/x"); err != nil {
		t.Fatalf("first Download: %v", err)
	}
	_, err := h.p.Download(ctx, "https://videos.example/x")
	requireKind(t, err, services.ErrDuplicateAsset)
	if got := services.HTTPStatus(err); got != http.StatusConflict {
		t.Fatalf("status = %d", got)
	}
	if left := stagingEntries(t, h.cfg.Paths.StagingDir); len(left) != 0 {
		t.Fatalf("staging not cleaned: %v", left)
	}
}

func TestDownloadRollsBackWhenAudioFails(t *testing.T) {
	h := newHarness(t, withKeys())
	h.tools.failAudio = true
	ctx := context.Background()

	_, err := h.p.Download(ctx, "https://videos.example/x")
	requireKind(t, err, services.ErrTranscode)

	asset, err := h.store.GetAsset(ctx, testVideoID)
	if err != nil || asset != nil {
		t.Fatalf("asset should not exist: %v %v", asset, err)
	}
	if _, err := h.blobs.Open(ctx, blob.VideoKey(testVideoID)); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("video blob should not exist, got %v", err)
	}
	if left := stagingEntries(t, h.cfg.Paths.StagingDir); len(left) != 0 {
		t.Fatalf("staging not cleaned: %v", left)
	}
	if h.p.locks.Held(testVideoID) {
		t.Fatal("lock still held")
	}
}

func TestTranscribeRequiresCredential(t *testing.T) {
	h := newHarness(t, store.DefaultSettings())
	ctx := context.Background()
	testsupport.NewAsset(t, h.store, testVideoID)

	_, err := h.p.Transcribe(ctx, testVideoID)
	requireKind(t, err, services.ErrCredentialMissing)
	if h.transcribeHits.Load() != 0 {
		t.Fatal("provider must not be called without a key")
	}
	tracks, _ := h.store.ListSubtitlesForAsset(ctx, testVideoID)
	if len(tracks) != 0 {
		t.Fatalf("expected no tracks, got %d", len(tracks))
	}
}

func TestTranscribeStoresDetectedLanguage(t *testing.T) {
	h := newHarness(t, withKeys())
	ctx := context.Background()
	if _, err := h.p.Download(ctx, "https://videos.example/x"); err != nil {
		t.Fatalf("Download: %v", err)
	}

	track, err := h.p.Transcribe(ctx, testVideoID)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if track.Language != "English" || !track.IsTranscribed || track.Cues != 2 {
		t.Fatalf("unexpected track %+v", track)
	}
	if track.VideoTitle != "Demo clip" {
		t.Fatalf("video title = %q", track.VideoTitle)
	}
	if !strings.Contains(track.Content, "00:00:02,000 --> 00:00:04,000") {
		t.Fatalf("unexpected content %q", track.Content)
	}

	_, err = h.p.Transcribe(ctx, testVideoID)
	requireKind(t, err, services.ErrDuplicateTrack)
	if left := stagingEntries(t, h.cfg.Paths.StagingDir); len(left) != 0 {
		t.Fatalf("staging not cleaned: %v", left)
	}
}

func TestTranscribeUnknownVideo(t *testing.T) {
	h := newHarness(t, withKeys())
	_, err := h.p.Transcribe(context.Background(), "missing")
	requireKind(t, err, services.ErrNotFound)
}

func createSource(t *testing.T, h *harness, entries int) *store.Subtitle {
	t.Helper()
	testsupport.NewAsset(t, h.store, testVideoID)
	sub, err := h.store.CreateSubtitle(context.Background(), store.Subtitle{
		VideoID:       testVideoID,
		Language:      "English",
		IsTranscribed: true,
		Content:       srtWithEntries(entries),
	})
	if err != nil {
		t.Fatalf("CreateSubtitle: %v", err)
	}
	return sub
}

func TestTranslateWithoutCredentialWritesNoTrack(t *testing.T) {
	seed := store.DefaultSettings()
	seed.OpenAIAPIKey = "sk-openai"
	h := newHarness(t, seed)
	source := createSource(t, h, 3)

	_, err := h.p.Translate(context.Background(), source.ID, TranslateRequest{TargetLanguage: "de"})
	requireKind(t, err, services.ErrCredentialMissing)
	if h.translateCalls.Load() != 0 {
		t.Fatal("provider must not be called without a key")
	}
	tracks, _ := h.store.ListSubtitlesForAsset(context.Background(), testVideoID)
	if len(tracks) != 1 {
		t.Fatalf("expected only the source track, got %d", len(tracks))
	}
}

func TestTranslateBatchesAndStoresNewTrack(t *testing.T) {
	h := newHarness(t, withKeys())
	ctx := context.Background()
	source := createSource(t, h, 25)

	result, err := h.p.Translate(ctx, source.ID, TranslateRequest{TargetLanguage: "de"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got := h.translateCalls.Load(); got != 3 {
		t.Fatalf("expected 3 provider requests, got %d", got)
	}
	if result.Turns != 3 || result.Outcome != "done" {
		t.Fatalf("unexpected result %+v", result)
	}
	track := result.Track
	if track.Language != "German" || track.IsTranscribed || track.ID == source.ID {
		t.Fatalf("unexpected track %+v", track)
	}
	cues := subtitles.ParseSRT(track.Content)
	if len(cues) != 25 {
		t.Fatalf("expected 25 cues, got %d", len(cues))
	}
	for i, cue := range cues {
		if want := fmt.Sprintf("Zeile %d", i+1); cue.Text != want {
			t.Fatalf("cue %d = %q, want %q", i, cue.Text, want)
		}
	}

	unchanged, _ := h.store.GetSubtitle(ctx, source.ID)
	if unchanged.Content != source.Content || !unchanged.IsTranscribed {
		t.Fatal("source track was modified")
	}

	_, err = h.p.Translate(ctx, source.ID, TranslateRequest{TargetLanguage: "German"})
	requireKind(t, err, services.ErrDuplicateTrack)
	if got := h.translateCalls.Load(); got != 3 {
		t.Fatalf("duplicate must not reach the provider, calls=%d", got)
	}
}

func TestTranslateEmptyReplyPersistsNothing(t *testing.T) {
	h := newHarness(t, withKeys())
	h.translateEmpty.Store(true)
	ctx := context.Background()
	source := createSource(t, h, 5)

	_, err := h.p.Translate(ctx, source.ID, TranslateRequest{TargetLanguage: "fr"})
	requireKind(t, err, services.ErrProtocolViolation)
	tracks, _ := h.store.ListSubtitlesForAsset(ctx, testVideoID)
	if len(tracks) != 1 {
		t.Fatalf("expected only the source track, got %d", len(tracks))
	}
	if h.p.locks.Held(testVideoID) {
		t.Fatal("lock still held")
	}

	h.translateEmpty.Store(false)
	if _, err := h.p.Translate(ctx, source.ID, TranslateRequest{TargetLanguage: "fr"}); err != nil {
		t.Fatalf("retry after empty reply: %v", err)
	}
}

func TestTranslateProviderFailurePersistsNothing(t *testing.T) {
	h := newHarness(t, withKeys())
	h.translateFail.Store(true)
	source := createSource(t, h, 5)

	_, err := h.p.Translate(context.Background(), source.ID, TranslateRequest{TargetLanguage: "fr"})
	requireKind(t, err, services.ErrProvider)
	tracks, _ := h.store.ListSubtitlesForAsset(context.Background(), testVideoID)
	if len(tracks) != 1 {
		t.Fatalf("expected only the source track, got %d", len(tracks))
	}
	if h.p.locks.Held(testVideoID) {
		t.Fatal("lock still held")
	}
}

func TestBurnStreamsAndCleansUp(t *testing.T) {
	h := newHarness(t, withKeys())
	ctx := context.Background()
	if _, err := h.p.Download(ctx, "https://videos.example/x"); err != nil {
		t.Fatalf("Download: %v", err)
	}
	sub, err := h.store.CreateSubtitle(ctx, store.Subtitle{VideoID: testVideoID, Language: "English", Content: srtWithEntries(2)})
	if err != nil {
		t.Fatalf("CreateSubtitle: %v", err)
	}

	start, end := 1.0, 5.5
	out, err := h.p.Burn(ctx, sub.ID, BurnRequest{StartSeconds: &start, EndSeconds: &end})
	if err != nil {
		t.Fatalf("Burn: %v", err)
	}
	if out.Name != fmt.Sprintf("%s-with-%d.mp4", testVideoID, sub.ID) {
		t.Fatalf("name = %q", out.Name)
	}
	if !h.p.locks.Held(testVideoID) {
		t.Fatal("asset should stay locked while streaming")
	}
	data, err := io.ReadAll(out)
	if err != nil || !bytes.Equal(data, []byte("ffmpeg-output")) {
		t.Fatalf("read output: %q %v", data, err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if h.p.locks.Held(testVideoID) {
		t.Fatal("lock not released on close")
	}

	burns := h.tools.callsFor("ffmpeg")
	args := burns[len(burns)-1]
	ss := slices.Index(args, "-ss")
	to := slices.Index(args, "-to")
	if ss < 0 || args[ss+1] != "1" || to < 0 || args[to+1] != "5.5" {
		t.Fatalf("unexpected trim args %v", args)
	}
	if left := stagingEntries(t, h.cfg.Paths.StagingDir); len(left) != 0 {
		t.Fatalf("staging not cleaned: %v", left)
	}
}

func TestBurnRejectsBusyAsset(t *testing.T) {
	h := newHarness(t, withKeys())
	source := createSource(t, h, 2)
	release, err := h.p.locks.TryAcquire(testVideoID)
	if err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	defer release()

	_, err = h.p.Burn(context.Background(), source.ID, BurnRequest{})
	requireKind(t, err, services.ErrBusy)
}

func TestBurnRejectsInvertedWindow(t *testing.T) {
	h := newHarness(t, withKeys())
	ctx := context.Background()
	if _, err := h.p.Download(ctx, "https://videos.example/x"); err != nil {
		t.Fatalf("Download: %v", err)
	}
	sub, _ := h.store.CreateSubtitle(ctx, store.Subtitle{VideoID: testVideoID, Language: "English", Content: srtWithEntries(1)})
	start, end := 9.0, 3.0
	_, err := h.p.Burn(ctx, sub.ID, BurnRequest{StartSeconds: &start, EndSeconds: &end})
	requireKind(t, err, services.ErrValidation)
	if h.p.locks.Held(testVideoID) {
		t.Fatal("lock not released after failure")
	}
}

func TestDeleteVideoRemovesTracksAndBlobs(t *testing.T) {
	h := newHarness(t, withKeys())
	ctx := context.Background()
	if _, err := h.p.Download(ctx, "https://videos.example/x"); err != nil {
		t.Fatalf("Download: %v", err)
	}
	sub, _ := h.store.CreateSubtitle(ctx, store.Subtitle{VideoID: testVideoID, Language: "English", Content: srtWithEntries(1)})

	if err := h.p.DeleteVideo(ctx, testVideoID); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}
	if got, _ := h.store.GetSubtitle(ctx, sub.ID); got != nil {
		t.Fatal("track should be gone")
	}
	if _, err := h.blobs.Open(ctx, blob.AudioKey(testVideoID)); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("audio blob should be gone, got %v", err)
	}
	requireKind(t, h.p.DeleteVideo(ctx, testVideoID), services.ErrNotFound)
}

func TestTrackCatalog(t *testing.T) {
	h := newHarness(t, withKeys())
	ctx := context.Background()
	source := createSource(t, h, 2)

	vtt, err := h.p.WebVTT(ctx, source.ID)
	if err != nil || !strings.HasPrefix(vtt, "WEBVTT\n\n") {
		t.Fatalf("WebVTT: %q %v", vtt, err)
	}

	updated, err := h.p.UpdateTrack(ctx, source.ID, srtWithEntries(4))
	if err != nil || updated.Cues != 4 {
		t.Fatalf("UpdateTrack: %+v %v", updated, err)
	}
	_, err = h.p.UpdateTrack(ctx, source.ID, "  ")
	requireKind(t, err, services.ErrValidation)

	page, err := h.p.ListTracks(ctx, store.Page{})
	if err != nil || page.Count != 1 || len(page.Items) != 1 || page.Page != 1 {
		t.Fatalf("ListTracks: %+v %v", page, err)
	}
	if page.Items[0].VideoThumbnailURL == "" {
		t.Fatal("expected a thumbnail link")
	}

	video, err := h.p.GetVideo(ctx, testVideoID)
	if err != nil || len(video.Subtitles) != 1 {
		t.Fatalf("GetVideo: %+v %v", video, err)
	}

	if err := h.p.DeleteTrack(ctx, source.ID); err != nil {
		t.Fatalf("DeleteTrack: %v", err)
	}
	requireKind(t, h.p.DeleteTrack(ctx, source.ID), services.ErrNotFound)
	_, err = h.p.GetTrack(ctx, source.ID)
	requireKind(t, err, services.ErrNotFound)
}

func TestSettingsSeedAndUpdate(t *testing.T) {
	h := newHarness(t, withKeys())
	ctx := context.Background()

	settings, err := h.p.Settings(ctx)
	if err != nil || settings.MaxVideoHeight != 720 || settings.AnthropicAPIKey != "sk-anthropic" {
		t.Fatalf("Settings: %+v %v", settings, err)
	}

	height := 1080
	cleared := ""
	updated, err := h.p.UpdateSettings(ctx, SettingsUpdate{MaxVideoHeight: &height, AnthropicAPIKey: &cleared})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if updated.MaxVideoHeight != 1080 || updated.AnthropicAPIKey != "" || updated.OpenAIAPIKey != "sk-openai" || !updated.UseHEAACv2 {
		t.Fatalf("unexpected settings %+v", updated)
	}

	bad := 999
	_, err = h.p.UpdateSettings(ctx, SettingsUpdate{MaxVideoHeight: &bad})
	requireKind(t, err, services.ErrValidation)
}

func TestSeedFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", " sk-env ")
	t.Setenv("ANTHROPIC_API_KEY", "")
	seed := seedFromEnv()
	if seed.OpenAIAPIKey != "sk-env" || seed.AnthropicAPIKey != "" || seed.MaxVideoHeight != store.DefaultMaxVideoHeight {
		t.Fatalf("unexpected seed %+v", seed)
	}
}
