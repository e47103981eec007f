package enums

import "fmt"

// ItemStatus is the tri-state inspection outcome for a single garment unit.
// OVERRIDDEN marks an item a supervisor manually accepted despite a failing
// inspection; it counts as passed everywhere pass rates are computed.
type ItemStatus string

const (
	ItemStatusPassed     ItemStatus = "PASSED"
	ItemStatusFailed     ItemStatus = "FAILED"
	ItemStatusOverridden ItemStatus = "OVERRIDDEN"
)

var validItemStatuses = []ItemStatus{
	ItemStatusPassed,
	ItemStatusFailed,
	ItemStatusOverridden,
}

// CountsAsPassed reports whether the status contributes to completed counts
// and pass rates.
func (s ItemStatus) CountsAsPassed() bool {
	return s == ItemStatusPassed || s == ItemStatusOverridden
}

// String implements fmt.Stringer.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemStatus.
func (s ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}

// PassedStatuses returns the statuses treated as passed, in query-friendly form.
func PassedStatuses() []ItemStatus {
	return []ItemStatus{ItemStatusPassed, ItemStatusOverridden}
}
