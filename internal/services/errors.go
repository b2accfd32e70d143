// Package services defines the business logic for recipe browsing and
// ingredient search. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer. "No matches found" is deliberately NOT an error: an empty
// result slice with a nil error is a valid, successful outcome.
package services

import "errors"

var (
	// ErrEmptyQuery is returned when a ranked search is requested with an
	// empty or whitespace-only ingredient list.
	ErrEmptyQuery = errors.New("ingredient query is empty")

	// ErrInvalidTopN is returned when a ranked search is requested with a
	// non-positive result count.
	ErrInvalidTopN = errors.New("top_n must be positive")

	// ErrRecipeNotFound indicates that the requested recipe id is not present
	// in the current index.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrNoIndex indicates that no index has been published yet. Seen only
	// when the service is wired incorrectly; startup fails fatally on an
	// empty corpus before the HTTP layer ever runs.
	ErrNoIndex = errors.New("recipe index not initialized")
)
