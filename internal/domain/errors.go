package domain

import "errors"

var (
	ErrInvalidPolicy    = errors.New("invalid lifecycle policy")
	ErrAccountNotFound  = errors.New("account not found")
	ErrTemplateNotFound = errors.New("template not found")
)
