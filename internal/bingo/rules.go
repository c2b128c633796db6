package bingo

import (
	"fmt"
	"strings"
)

// Rule is a win condition selectable for a room.
type Rule string

const (
	RuleLine   Rule = "line"
	RuleColumn Rule = "column"
	RuleFull   Rule = "full"
)

// Valid reports whether r is one of the selectable rules.
func (r Rule) Valid() bool {
	switch r {
	case RuleLine, RuleColumn, RuleFull:
		return true
	}
	return false
}

// ParseRules turns raw rule names into a rule list, keeping the first
// occurrence of each rule in its given order.
func ParseRules(raw []string) ([]Rule, error) {
	if len(raw) == 0 {
		return nil, Errorf(KindInvalidArgument, "at least one rule is required")
	}
	rules := make([]Rule, 0, len(raw))
	seen := make(map[Rule]struct{}, len(raw))
	for _, name := range raw {
		rule := Rule(strings.ToLower(strings.TrimSpace(name)))
		if !rule.Valid() {
			return nil, Errorf(KindInvalidArgument, fmt.Sprintf("unknown rule %q", name))
		}
		if _, dup := seen[rule]; dup {
			continue
		}
		seen[rule] = struct{}{}
		rules = append(rules, rule)
	}
	return rules, nil
}

// satisfiedBy reports whether card meets the rule.
func (r Rule) satisfiedBy(card *Card) bool {
	switch r {
	case RuleLine:
		for i := 0; i < CardSize; i++ {
			if card.CheckLine(i) {
				return true
			}
		}
	case RuleColumn:
		for j := 0; j < CardSize; j++ {
			if card.CheckColumn(j) {
				return true
			}
		}
	case RuleFull:
		return card.CheckFull()
	}
	return false
}

// firstSatisfied returns the first rule in rules met by card.
func firstSatisfied(rules []Rule, card *Card) (Rule, bool) {
	for _, rule := range rules {
		if rule.satisfiedBy(card) {
			return rule, true
		}
	}
	return "", false
}
