package models

// Verdict is the immutable outcome of validating a whole staged batch.
// A batch is either wholly valid or wholly invalid.
type Verdict struct {
	Valid   bool
	Message string
}

func Valid(msg string) Verdict {
	return Verdict{Valid: true, Message: msg}
}

func Invalid(msg string) Verdict {
	return Verdict{Valid: false, Message: msg}
}
