package tools

// Result is the two-branch payload returned to the dialogue engine:
// exactly one of Success and Error is set.
type Result[T any] struct {
	Success *T     `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r Result[T]) OK() bool {
	return r.Success != nil
}

func success[T any](v T) Result[T] {
	return Result[T]{Success: &v}
}

func failure[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}
