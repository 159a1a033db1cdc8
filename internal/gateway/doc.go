// Package gateway is the only road to the metadata providers. Each provider
// gets one Gateway that serializes its requests, paces them, caches responses
// in SQLite, waits out rate-limit cooldowns, and retries transient failures.
// A 404 comes back as a first-class not-found result rather than an error so
// callers are forced to handle the miss.
package gateway
