package logging

import "strings"

// FormatSubject builds the asset/subtitle/stage subject string used in console output.
func FormatSubject(assetID, subtitleID, stage string) string {
	assetID = strings.TrimSpace(assetID)
	subtitleID = strings.TrimSpace(subtitleID)
	stage = strings.TrimSpace(stage)
	parts := make([]string, 0, 3)
	if assetID != "" {
		parts = append(parts, assetID)
	}
	if subtitleID != "" {
		parts = append(parts, "sub #"+subtitleID)
	}
	if stage != "" {
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}
