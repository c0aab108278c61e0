// SPDX-License-Identifier: MIT

package functions

import "errors"

var (
	// ErrNotImplemented is returned by Backward when the Factory has no
	// derivative quadratic form factory.
	ErrNotImplemented = errors.New("functions: derivative quadratic form factory not provided")

	// ErrNoForward is returned by Backward when Forward has not run successfully.
	ErrNoForward = errors.New("functions: backward called before forward")

	// ErrInputCount is returned when a node receives the wrong number of inputs,
	// or a derivative closure returns the wrong number of gradients.
	ErrInputCount = errors.New("functions: wrong number of inputs")
)
