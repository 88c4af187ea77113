package barry

import (
	"errors"
	"fmt"
)

// Err is the root of every error returned by this package. Callers can match
// it with errors.Is to catch anything coming out of the client, or match one
// of the narrower sentinels below.
var Err = errors.New("barry")

var (
	// ErrValidation means the caller-supplied arguments violate a
	// precondition. No request has been sent.
	ErrValidation = fmt.Errorf("%w: validation", Err)

	// ErrTransport means the HTTP round-trip itself failed: connection
	// error, non-2xx status or an unparsable body. Never retried.
	ErrTransport = fmt.Errorf("%w: transport", Err)

	// ErrRemote means the service answered with a well-formed JSON-RPC
	// error envelope. The message from error.data.message is attached.
	ErrRemote = fmt.Errorf("%w: remote", Err)

	// ErrNotFound means a requested key (a metering point id) was absent
	// from an otherwise successful response.
	ErrNotFound = fmt.Errorf("%w: not found", Err)
)
