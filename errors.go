package sqlstr

import (
	"errors"
	"fmt"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown             ErrCode = ""
	ErrCodeInvalidInput        ErrCode = "InvalidInput"
	ErrCodeEmptyColumnSet      ErrCode = "EmptyColumnSet"
	ErrCodeEmptyQuery          ErrCode = "EmptyQuery"
	ErrCodeUnsupportedType     ErrCode = "UnsupportedType"
	ErrCodeUnexpectedParameter ErrCode = "UnexpectedParameter"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, sqlstr.ErrEmptyColumnSet) {
		// Handle specific error.
	}

Note that errors returned by this package can't be compared via `==` because
they may include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.
*/
var (
	ErrInvalidInput        Err = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
	ErrEmptyColumnSet      Err = Err{Code: ErrCodeEmptyColumnSet, Cause: errors.New(`no columns and values provided`)}
	ErrEmptyQuery          Err = Err{Code: ErrCodeEmptyQuery, Cause: errors.New(`no query has been built`)}
	ErrUnsupportedType     Err = Err{Code: ErrCodeUnsupportedType, Cause: errors.New(`unsupported field type`)}
	ErrUnexpectedParameter Err = Err{Code: ErrCodeUnexpectedParameter, Cause: errors.New(`unexpected parameter`)}
)

// Type of errors returned by this package.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ""
	}
	msg := `[sqlstr]`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.While != "" {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}
