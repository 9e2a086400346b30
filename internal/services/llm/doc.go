// Package llm holds the provider-neutral pieces shared by the model clients
// under internal/services: tolerant JSON decoding of model output and HTTP
// status error handling.
//
// Models frequently wrap JSON in markdown code fences or surround it with
// prose, so DecodeJSON falls back from the literal reply to the unfenced body
// and finally to the outermost object or array in it.
//
// StatusError carries the HTTP status, a trimmed body snippet, and any
// Retry-After hint. Clients do not retry on their own; callers that want a
// retry policy can inspect Retryable and RetryAfter.
package llm
