// Package logging assembles structured slog loggers and formatting helpers used
// across wandlung.
//
// It owns the configurable console/JSON handlers and exposes context-aware
// helpers so pipeline code tags log lines with asset IDs, subtitle IDs, stages,
// and correlation IDs without threading them through every call.
package logging
