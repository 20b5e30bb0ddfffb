package validation

// Rule inspects an input and returns nil when it passes.
type Rule[T any] func(T) *Failure

// Run applies rules in order and returns the first failure.
func Run[T any](input T, rules ...Rule[T]) *Failure {
	for _, rule := range rules {
		if f := rule(input); f != nil {
			return f
		}
	}
	return nil
}
