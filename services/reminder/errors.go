package reminder

import "fmt"

// RuleError reports an invalid rule passed to create or update.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewRuleError(msg string) error {
	return &RuleError{
		Code:    "ruleError",
		Message: msg,
	}
}
