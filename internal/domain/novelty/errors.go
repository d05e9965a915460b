package novelty

import "errors"

var (
	ErrAbsenteeNotFound = errors.New("absentee history not found")
)
