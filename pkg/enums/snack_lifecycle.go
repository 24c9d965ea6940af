package enums

import "fmt"

// SnackLifecycle separates listable proposals from retired ones that only
// survive for historical joins.
type SnackLifecycle string

const (
	SnackLifecycleActive  SnackLifecycle = "active"
	SnackLifecycleRetired SnackLifecycle = "retired"
)

var validSnackLifecycles = []SnackLifecycle{
	SnackLifecycleActive,
	SnackLifecycleRetired,
}

func (l SnackLifecycle) String() string {
	return string(l)
}

func (l SnackLifecycle) IsValid() bool {
	for _, candidate := range validSnackLifecycles {
		if candidate == l {
			return true
		}
	}
	return false
}

func ParseSnackLifecycle(value string) (SnackLifecycle, error) {
	for _, candidate := range validSnackLifecycles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid snack lifecycle %q", value)
}
