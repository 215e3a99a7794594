package httperr

import (
	"errors"
	"strings"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsExclusionConflict recognizes a postgres exclusion-constraint
// violation (SQLSTATE 23P01), raised when a deployment adds the
// optional no-overlap constraint on (resource_id, time range).
func IsExclusionConflict(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "23P01")
}
