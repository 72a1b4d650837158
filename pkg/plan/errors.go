package plan

import "errors"

var (
	ErrUnknownElection  = errors.New("unknown election")
	ErrInvalidParty     = errors.New("invalid party")
	ErrUnknownDistrict  = errors.New("unknown district")
	ErrUnknownAttribute = errors.New("unknown attribute")
)
