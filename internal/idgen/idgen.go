package idgen

import "github.com/google/uuid"

// RequestFunc produces request ids. Tests may replace it.
var RequestFunc = func() string { return uuid.NewString() }

// Request returns a new request correlation id.
func Request() string { return RequestFunc() }
