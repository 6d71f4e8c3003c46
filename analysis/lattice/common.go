package lattice

import (
	"fmt"

	"github.com/cs-au-dk/mint/utils"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

var colorize = struct {
	Element func(...interface{}) string
	Const   func(...interface{}) string
	Key     func(...interface{}) string
	Attr    func(...interface{}) string
	Status  func(...interface{}) string
}{
	Element: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
	Const: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite).SprintFunc())(is...)
	},
	Key: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
	Attr: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiRed).SprintFunc())(is...)
	},
	Status: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgMagenta).SprintFunc())(is...)
	},
}

var (
	// ErrInvalidInterval is raised when constructing an interval with
	// exactly one missing bound, or with a lower bound above the upper bound.
	ErrInvalidInterval = errors.New("InvalidIntervalError")
	// ErrVariableMismatch is raised when two states meeting at a confluence
	// do not track the same variables.
	ErrVariableMismatch = errors.New("VariableMismatchError")

	errInternal     = errors.New("internal error")
	errPatternMatch = func(v interface{}) error {
		return fmt.Errorf("invalid pattern match: %v %T", v, v)
	}
)
