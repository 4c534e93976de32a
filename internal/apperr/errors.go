package apperr

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotFoundError marks a lookup of a run or resource that does not exist.
type NotFoundError struct {
	Message string
	Err     error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func NewNotFoundWrap(msg string, err error) *NotFoundError {
	return &NotFoundError{Message: msg, Err: err}
}

// UnprocessableError is a well-formed request the pipeline could not act on,
// such as a pattern that matches no result files.
type UnprocessableError struct {
	Message string
	Err     error
}

func (e *UnprocessableError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UnprocessableError) Unwrap() error {
	return e.Err
}

func NewUnprocessableWrap(msg string, err error) *UnprocessableError {
	return &UnprocessableError{Message: msg, Err: err}
}
