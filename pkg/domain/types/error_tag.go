package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures so the HTTP layer can map them to status
// codes without inspecting messages.
var (
	// ErrTagValidation marks client input errors (missing/malformed fields)
	ErrTagValidation = goerr.NewTag("validation")
	// ErrTagAuth marks authentication failures (missing/invalid token)
	ErrTagAuth = goerr.NewTag("auth")
	// ErrTagUpstream marks failures of a backing store or external service
	ErrTagUpstream = goerr.NewTag("upstream")
	// ErrTagNotFound marks lookups of records that do not exist
	ErrTagNotFound = goerr.NewTag("not_found")
)
