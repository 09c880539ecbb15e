package identity

import "errors"

var ErrNoActiveSession = errors.New("no active session")
