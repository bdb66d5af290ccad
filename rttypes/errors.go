package rttypes

import "errors"

// ErrStateError is returned (wrapped with context via fmt.Errorf) whenever an
// operation is attempted that the symbol-source state machine forbids: most
// commonly consuming past EOF, or popping an empty lexer mode stack.
var ErrStateError = errors.New("rttypes: invalid state for this operation")

// ErrRangeError is returned (wrapped with context) for out-of-bounds index
// arguments: a token-buffer index outside [0, len), a negative bit index, and
// similar usage mistakes that are the caller's fault rather than a parse
// failure.
var ErrRangeError = errors.New("rttypes: index out of range")
