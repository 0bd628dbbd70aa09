package models

// Message is the `{ "msg": ... }` body used for simple error responses.
type Message struct {
	Msg string `json:"msg"`
}

// FieldError is a single validation failure, surfaced verbatim to the caller.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// ValidationErrors wraps field errors as `{ "errors": [{ "msg": ... }, ...] }`.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func NewMessage(msg string) Message {
	return Message{Msg: msg}
}

func NewValidationErrors(errs ...FieldError) ValidationErrors {
	return ValidationErrors{Errors: errs}
}
