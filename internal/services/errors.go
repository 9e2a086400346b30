package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrFetch              = errors.New("fetch failed")
	ErrTranscode          = errors.New("transcode failed")
	ErrTranscription      = errors.New("transcription failed")
	ErrProtocolViolation  = errors.New("translation protocol violation")
	ErrProvider           = errors.New("provider error")
	ErrBurn               = errors.New("burn failed")
	ErrCredentialMissing  = errors.New("credential missing")
	ErrConfigMissing      = errors.New("pipeline settings missing")
	ErrSingletonViolation = errors.New("settings singleton violation")
	ErrDuplicateTrack     = errors.New("subtitle track already exists")
	ErrDuplicateAsset     = errors.New("video already exists")
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrBusy               = errors.New("resource busy")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProvider
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

type kind struct {
	marker   error
	category string
	status   int
}

// Order matters: a chain carrying several markers reports the first match.
var kinds = []kind{
	{ErrNotFound, "not_found", http.StatusNotFound},
	{ErrValidation, "validation", http.StatusBadRequest},
	{ErrDuplicateTrack, "duplicate_track", http.StatusConflict},
	{ErrDuplicateAsset, "duplicate_asset", http.StatusConflict},
	{ErrSingletonViolation, "singleton_violation", http.StatusConflict},
	{ErrBusy, "busy", http.StatusConflict},
	{ErrCredentialMissing, "credential_missing", http.StatusPreconditionFailed},
	{ErrConfigMissing, "config_missing", http.StatusPreconditionFailed},
	{ErrProtocolViolation, "protocol_violation", http.StatusBadGateway},
	{ErrTranscription, "transcription", http.StatusBadGateway},
	{ErrFetch, "fetch", http.StatusBadGateway},
	{ErrProvider, "provider", http.StatusBadGateway},
	{ErrTranscode, "transcode", http.StatusInternalServerError},
	{ErrBurn, "burn", http.StatusInternalServerError},
}

// Category returns the stable error kind reported to callers.
func Category(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.category
		}
	}
	return "internal"
}

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
