package contract

import "errors"

var (
	ErrValidation            = errors.New("validation failed")
	ErrRetrievalUnavailable  = errors.New("menu retrieval unavailable")
	ErrGenerationUnavailable = errors.New("generation unavailable")
	ErrCapacityExceeded      = errors.New("party size exceeds capacity")
	ErrPersistence           = errors.New("persistence failed")
)
