package domain

// Reply is the mediator's answer to one read or write. A response that fails
// structured decoding is preserved as raw bytes instead of an error, so
// partial protocol mismatches degrade to inspectable data rather than
// crashing callers.
type Reply struct {
	Value interface{}
	Raw   []byte
}

// Decoded reports whether the reply carried a structured value.
func (r Reply) Decoded() bool {
	return r.Raw == nil
}
