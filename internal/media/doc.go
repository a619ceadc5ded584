// Package media defines the normalized entities produced from upstream
// payloads: library items, queue entries, disk statistics and service health.
// Values are rebuilt on every fetch and never mutated in place.
package media
