// Package repository holds the pgx-backed storage layer. The sentinel
// errors below form the failure taxonomy shared by every repository;
// services wrap them with context and handlers translate them with
// errors.Is into HTTP responses.
package repository

import "errors"

// ErrNotFound is returned when a referenced hotel, room type, room,
// booking or user does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the acting user lacks permission for the
// requested action on the target resource.
var ErrForbidden = errors.New("forbidden")

// ErrValidation is returned for malformed input (bad dates, non-positive
// counts, missing required fields). Detected before any persistence
// attempt; no side effects.
var ErrValidation = errors.New("validation failed")

// ErrNoAvailability is returned when no free room satisfies the requested
// hotel, room type and stay window. A normal business outcome, not a bug.
var ErrNoAvailability = errors.New("no rooms available for the selected dates")

// ErrConflict is returned when a concurrent write raced and lost, e.g. two
// requests targeting the last free room. The loser may retry with a
// different window or accept unavailability.
var ErrConflict = errors.New("conflict")

// ErrInvariantViolation means the overlap constraint rejected a write the
// application believed was safe. It should never surface in correct
// operation; it signals a bug in the allocation path or a bypass of the
// repository, and is always logged loudly at the point of detection.
var ErrInvariantViolation = errors.New("booking overlap invariant violated")
