package engine

// ValidateRules checks a rule list as a whole. Individual rules are already
// valid by construction; this catches contradictions that only make sense
// at the rule-set level.
//
// Rejected configurations:
//   - an empty rule list
//   - a streak rule with a rival that divides its own divisor (including
//     the rival being the divisor itself): every clean division after the
//     first coincides with an interruption, so the streak can never grow
//     and the rule fires at most once
//
// Returns the first problem found.
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return NewRuleConfigError("", "rule set is empty")
	}

	for _, r := range rules {
		if r.kind == "" {
			return NewRuleConfigError("", "rule was not constructed; use NewFixed, NewStreak, Numeric or NewCustom")
		}
		if err := validateStreakRivals(r); err != nil {
			return err
		}
	}
	return nil
}

func validateStreakRivals(r Rule) error {
	for _, rival := range r.rivals {
		if rival == r.divisor {
			return NewRuleConfigError(r.name, "divisor %d is listed among its own rivals", r.divisor)
		}
		if r.divisor%rival == 0 {
			return NewRuleConfigError(r.name, "rival %d divides divisor %d and interrupts every streak", rival, r.divisor)
		}
	}
	return nil
}
