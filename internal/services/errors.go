package services

import "errors"

var (
	ErrAlarmNotFound      = errors.New("alarm not found")
	ErrBindingNotFound    = errors.New("condition binding not found")
	ErrDefinitionNotFound = errors.New("condition definition not found")
	ErrAlreadyBound       = errors.New("condition already attached to alarm")
	ErrInvalidFeeling     = errors.New("unknown feeling value")
)
