// Package types the sobek value type helpers.
package types

import (
	"github.com/grafana/sobek"
)

// IsNullish returns true if the value is nil, undefined or null.
func IsNullish(value sobek.Value) bool {
	return value == nil || sobek.IsUndefined(value) || sobek.IsNull(value)
}

// IsObject returns true if the value is an object, functions included.
func IsObject(value sobek.Value) bool {
	_, ok := value.(*sobek.Object)
	return ok
}
