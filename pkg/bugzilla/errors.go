package bugzilla

import "fmt"

// ValidationError reports a problem with caller-supplied input (a missing
// required field, an unknown action verb). It is always raised before any
// remote call goes out.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// QueryError reports a malformed boolean chart expression.
type QueryError struct {
	Expression string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("malformed boolean query: %s", e.Expression)
}

// RemoteFault is a failure the Bugzilla server itself reported for a
// call. Faults propagate to the caller unrecovered, except on the
// lenient batched lookup path where a faulted slot becomes a nil record.
type RemoteFault struct {
	Method  string
	Code    int
	Message string
}

func (e *RemoteFault) Error() string {
	return fmt.Sprintf("bugzilla fault (code %d) on %s: %s", e.Code, e.Method, e.Message)
}
