// Package assert holds invariant checks that panic when violated.
// They guard conditions earlier validation already guarantees.
package assert

import (
	"fmt"
)

// Length panics unless value is exactly expected bytes long
func Length(value string, expected int) {
	if len(value) != expected {
		panic(fmt.Sprintf("assert.Length expected %d actual %d (%q)", expected, len(value), value))
	}
}
