package movement

import "errors"

var (
	ErrMovementNotFound = errors.New("movement not found")
)
