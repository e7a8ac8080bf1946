package debugview

import "errors"

// ErrArgumentMissing is returned by Parse when no line sequence is given.
var ErrArgumentMissing = errors.New("debugview: line sequence is required")
