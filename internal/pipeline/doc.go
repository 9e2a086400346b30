// Package pipeline sequences the media stages for one unit of work: fetching a
// video, extracting audio, transcribing, translating and burning subtitles.
//
// Every operation reads the settings record first and passes the values it
// needs down to the stages, so a settings change applies to the next call
// without a restart. Operations on one video are serialized through
// internal/assetlock; a second caller gets services.ErrBusy instead of
// waiting. Scratch files live in per-call work directories under the staging
// root and are removed before an error is returned.
package pipeline
