package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNoSearchCredential = errors.New("search credential is not configured")
	ErrNoLLMCredential    = errors.New("llm credential is not configured")
	ErrSearchUpstream     = errors.New("search upstream returned an error")
	ErrEmptyChoices       = errors.New("llm response contained no choices")
)
