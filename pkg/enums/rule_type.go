package enums

import "fmt"

// RuleType is the per-orientation policy for a flaw type. The stability
// window attached to a rule is interpreted by the mobile client, not here.
type RuleType string

const (
	RuleTypeFailIfPresent  RuleType = "fail_if_present"
	RuleTypeAlertIfPresent RuleType = "alert_if_present"
	RuleTypeFailIfAbsent   RuleType = "fail_if_absent"
	RuleTypeAlertIfAbsent  RuleType = "alert_if_absent"
)

var validRuleTypes = []RuleType{
	RuleTypeFailIfPresent,
	RuleTypeAlertIfPresent,
	RuleTypeFailIfAbsent,
	RuleTypeAlertIfAbsent,
}

// String implements fmt.Stringer.
func (r RuleType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RuleType.
func (r RuleType) IsValid() bool {
	for _, candidate := range validRuleTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleType converts raw input into a RuleType.
func ParseRuleType(value string) (RuleType, error) {
	for _, candidate := range validRuleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule type %q", value)
}
