package services

import "errors"

// Sentinel errors returned by the stores. Services translate them into the
// reason codes carried by their result structs; infrastructure errors are
// logged, business-rule conflicts are not.
var (
	ErrLimitReached        = errors.New("assignment limit reached")
	ErrDuplicateAssignment = errors.New("active assignment already exists")
	ErrDuplicateRequest    = errors.New("open review request already exists")
	ErrDeliveryFailed      = errors.New("invitation delivery failed")
	ErrLookupFailed        = errors.New("lookup failed")
	ErrSaveFailed          = errors.New("save failed")
)
