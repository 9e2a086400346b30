// Package services defines shared utilities consumed by the pipeline stages
// and the provider integrations.
//
// Key responsibilities:
//   - Context helpers that stamp asset IDs, subtitle IDs, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper. Category and HTTPStatus
//     give every marker one stable kind and response status.
//
// Provider clients live in subpackages (whisper, anthropic, llm).
package services
