package tape

// ExternalFunc is an opaque callback spliced into the reverse replay
// at the statement-stream position it was pushed at. It owns payload
// and is responsible for freeing it via Delete when the tape resets
// past it or is torn down — the tape never inspects payload itself.
type ExternalFunc struct {
	Reverse func(payload any)
	Delete  func(payload any)
	Payload any
}
