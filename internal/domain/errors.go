package domain

// ValidationError marks input the caller can correct. The HTTP layer
// maps it to a 400 response with the message intact.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
