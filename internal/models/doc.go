// Package models defines the core domain models for Eventful.
//
// # Aggregates
//
//   - EventGroup: a group of members with a leader, joined via code + password
//   - Event: a planned gathering owned by a group, with a participant roster
//   - Schedule: a confirmed time block within an event
//   - Vote: a location poll within an event that resolves into a Schedule
//
// Each aggregate owns its child collections by value (participants on Event,
// options and ballot records on Vote). Links between aggregates are plain
// identifiers resolved through the storage layer, never live object graphs.
//
// # Design Principles
//
// 1. **Validated factories**: aggregates are built through New* functions that
// reject malformed input before any state exists
// 2. **Identity by ID**: entities compare by their uuid-backed IDs; nothing
// relies on pointer identity
// 3. **No I/O**: models never touch storage; services orchestrate persistence
// 4. **Errors as kinds**: every violation wraps one of the sentinel errors in
// errors.go so callers can branch with errors.Is
package models
