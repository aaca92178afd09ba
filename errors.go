package mldb

import errors "gopkg.in/src-d/go-errors.v1"

// ErrInvalidLogFormat is returned when the log format is not text or json.
var ErrInvalidLogFormat = errors.NewKind("invalid log format %q, expecting text or json")
