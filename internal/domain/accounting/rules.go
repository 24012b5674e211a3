package accounting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erp/accounting/internal/domain/shared"
)

// PolicyErrorMode controls how the posting rule chain reports violations.
type PolicyErrorMode string

const (
	// PolicyFailFast stops at the first failing rule and surfaces only that
	// violation.
	PolicyFailFast PolicyErrorMode = "FAIL_FAST"
	// PolicyAggregate runs every rule on every account and collects all
	// violations of the voucher into a single error.
	PolicyAggregate PolicyErrorMode = "AGGREGATE"
)

// IsValid returns true if the mode is one of the defined modes
func (m PolicyErrorMode) IsValid() bool {
	return m == PolicyFailFast || m == PolicyAggregate
}

// PostingContext carries everything a rule needs to judge one posting target.
type PostingContext struct {
	Account     *Account
	HasChildren bool
}

// RuleResult is the outcome of a single rule evaluation.
type RuleResult struct {
	Valid  bool
	Reason string
}

// PostingRule validates one aspect of a posting target account.
// Rules are data, not subclasses: the chain is a slice sorted by priority,
// and new rules are added by appending to it.
type PostingRule struct {
	Name     string
	Priority int // lower runs first
	Validate func(ctx PostingContext) RuleResult
}

func validResult() RuleResult {
	return RuleResult{Valid: true}
}

func invalidResult(reason string) RuleResult {
	return RuleResult{Valid: false, Reason: reason}
}

// DefaultPostingRules returns the built-in posting rules.
func DefaultPostingRules() []PostingRule {
	return []PostingRule{
		{
			Name:     "ActiveAccountOnly",
			Priority: 5,
			Validate: func(ctx PostingContext) RuleResult {
				if !ctx.Account.IsActive {
					return invalidResult(fmt.Sprintf(
						"account %s (%s) is inactive and cannot receive postings",
						ctx.Account.Code, ctx.Account.Name))
				}
				return validResult()
			},
		},
		{
			Name:     "NoParentAccount",
			Priority: 10,
			Validate: func(ctx PostingContext) RuleResult {
				if ctx.HasChildren {
					return invalidResult(fmt.Sprintf(
						"account %s (%s) is a parent account; only leaf accounts may receive postings",
						ctx.Account.Code, ctx.Account.Name))
				}
				return validResult()
			},
		},
	}
}

// RuleChain evaluates posting rules against accounts referenced by a voucher.
type RuleChain struct {
	rules []PostingRule
	mode  PolicyErrorMode
}

// NewRuleChain builds a chain from the default rules plus any extra rules,
// sorted by ascending priority.
func NewRuleChain(mode PolicyErrorMode, extra ...PostingRule) *RuleChain {
	if !mode.IsValid() {
		mode = PolicyFailFast
	}
	rules := append(DefaultPostingRules(), extra...)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})
	return &RuleChain{rules: rules, mode: mode}
}

// Mode returns the configured error mode
func (c *RuleChain) Mode() PolicyErrorMode {
	return c.mode
}

// Evaluate runs the chain against a single posting target.
// Under FAIL_FAST the first violation wins; under AGGREGATE all violations
// for the account are collected.
func (c *RuleChain) Evaluate(ctx PostingContext) error {
	violations := c.collect(ctx)
	if len(violations) == 0 {
		return nil
	}
	return c.violationError(violations)
}

// EvaluateAll runs the chain against every posting target of a voucher.
// All targets must pass before the voucher is considered postable; under
// AGGREGATE the violations of the whole voucher are reported together.
func (c *RuleChain) EvaluateAll(ctxs []PostingContext) error {
	var violations []string
	for _, ctx := range ctxs {
		v := c.collect(ctx)
		if len(v) == 0 {
			continue
		}
		if c.mode == PolicyFailFast {
			return c.violationError(v[:1])
		}
		violations = append(violations, v...)
	}
	if len(violations) == 0 {
		return nil
	}
	return c.violationError(violations)
}

func (c *RuleChain) collect(ctx PostingContext) []string {
	var violations []string
	for _, rule := range c.rules {
		result := rule.Validate(ctx)
		if result.Valid {
			continue
		}
		violations = append(violations, result.Reason)
		if c.mode == PolicyFailFast {
			break
		}
	}
	return violations
}

func (c *RuleChain) violationError(violations []string) error {
	if len(violations) == 1 {
		return shared.NewPolicyError("POSTING_RULE_VIOLATION", violations[0])
	}
	err := shared.NewPolicyError("POSTING_RULE_VIOLATION",
		fmt.Sprintf("%d posting rules failed: %s", len(violations), strings.Join(violations, "; ")))
	return err.WithHints(violations...)
}
