package family

import "errors"

var (
	ErrFamilyNotFound       = errors.New("family not found")
	ErrFamilyCodeNotFound   = errors.New("family code not found")
	ErrCodeRequired         = errors.New("family code is required")
	ErrAlreadyInFamily      = errors.New("already in family")
	ErrNotInFamily          = errors.New("not in a family")
	ErrUserNotFound         = errors.New("user not found")
	ErrCodeGenerationFailed = errors.New("family code generation failed")
)
