package edgar

import (
	"errors"
	"fmt"
)

// Error kinds returned by the pipeline. Callers match them with errors.Is;
// the wrapped cause is kept alongside the kind.
var (
	// ErrNetwork covers transport failures, unreadable bodies and non-200 responses.
	ErrNetwork = errors.New("network error")

	// ErrParse means a response was not well-formed XML, JSON or Atom.
	ErrParse = errors.New("parse error")

	// ErrSchema means a well-formed document is missing an expected field.
	ErrSchema = errors.New("schema error")

	// ErrNotFound means no report or filing matched what the caller asked for.
	ErrNotFound = errors.New("not found")

	// ErrUserAgentRejected is returned when the ticker table comes back with
	// fewer columns than expected. SEC answers requests with a missing or refused
	// User-Agent with truncated bodies instead of an error status, so this is the
	// signal to fix the contact address.
	ErrUserAgentRejected = fmt.Errorf("%w: ticker table has fewer columns than expected; check the User-Agent contact address", ErrSchema)
)
