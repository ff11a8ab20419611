package federation

import "errors"

var (
	ErrValidatorNotFound      = errors.New("federation: validator not found")
	ErrAlreadyRegistered      = errors.New("federation: validator already registered")
	ErrInsufficientStake      = errors.New("federation: insufficient stake")
	ErrInsufficientValidators = errors.New("federation: not enough active validators for requested committee size")
)
