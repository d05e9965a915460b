package refdata

import "errors"

var (
	ErrCodeNotFound     = errors.New("code not found")
	ErrConstantNotFound = errors.New("constant not found")
	ErrBracketNotFound  = errors.New("solidarity bracket not found")
)
