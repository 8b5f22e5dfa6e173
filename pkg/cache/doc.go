// Package cache reads and writes JSON-encoded values at coordinated file locations.
//
// The phone app, the watch app, and the widget extensions all share a single on-disk cache root, so
// every read and write is guarded by an OS-level advisory lock rather than an in-process mutex.
// Freshness is tracked through the file's modification time: [Write] refreshes it, and [Read]
// treats an entry older than its time-to-live as absent. An absent or expired entry is a cache
// miss, never an error, so callers can fall through to the network without inspecting error
// values. Decoding failures, on the other hand, indicate a corrupted or incompatible cache file
// and are reported as errors.
package cache
