package entitlements

import "errors"

var (
	// ErrAccountNotFound means the account id does not resolve to a record.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidTransition means the requested transition is not legal from
	// the account's current lifecycle status. The record is left untouched.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrVersionConflict means another writer updated the record since it
	// was read. Callers should reload and retry.
	ErrVersionConflict = errors.New("account version conflict")

	// ErrUnknownTier means the requested tier is not in the plan catalog.
	ErrUnknownTier = errors.New("unknown tier")

	// ErrAccountExpired means the access window has elapsed and the account
	// no longer accepts entitlement operations.
	ErrAccountExpired = errors.New("account access window has elapsed")

	// ErrAccountDisabled means the operator kill switch is off.
	ErrAccountDisabled = errors.New("account is disabled")
)
