package ledger

import "errors"

var (
	ErrInvalidName          = errors.New("name is required")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInvalidPeriodicity   = errors.New("invalid periodicity")
	ErrInvalidSeparator     = errors.New("invalid decimal separator")
	ErrInvalidFractionDigit = errors.New("fraction digits must be between 0 and 8")
	ErrGroupCycle           = errors.New("group cannot be its own parent")
	ErrBookNotFound         = errors.New("book not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrSnapshotNotFound     = errors.New("snapshot not found")
	ErrInvalidSnapshot      = errors.New("invalid balances snapshot")
)
