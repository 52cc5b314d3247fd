// SPDX-License-Identifier: MIT

package datasource

import "errors"

var (
	// ErrMalformedRecord reports a CSV record that does not parse as M
	// integers in 0..255. The wrapping message carries the 1-based record number.
	ErrMalformedRecord = errors.New("datasource: malformed record")

	// ErrNotSquare reports a CSV body whose record count differs from its width,
	// or an empty body.
	ErrNotSquare = errors.New("datasource: matrix is not square")

	// ErrInvalidPeers reports a non-positive peer count passed to Generate.
	ErrInvalidPeers = errors.New("datasource: peer count must be positive")
)
