package services

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAlcoholNotFound     = errors.New("alcohol not found")
	ErrPartyNotFound       = errors.New("party not found")
	ErrAssociationNotFound = errors.New("association not found")
	ErrAssociationExists   = errors.New("association already exists")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrMembershipExists    = errors.New("membership already exists")
	ErrRatingOutOfRange    = errors.New("rating must be between 0 and 10")
	ErrNegativeVolume      = errors.New("volume must not be negative")
	ErrCreatorCannotLeave  = errors.New("party creator cannot leave their own party")
)
