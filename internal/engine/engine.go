// Package engine implements alert routing: given an alert and the team that
// owns it, decide which routing rule applies and what actions the match
// implies.
//
// Rules are evaluated in priority order (higher first, newer first on
// ties). By default evaluation stops at the first full match; setting
// Config.FirstMatchOnly to false makes every matching rule contribute its
// action document instead. A condition document's matchMode field accepts
// "any" for schema compatibility but evaluation is always conjunctive; OR
// semantics would be a behavior change that needs explicit product sign-off.
package engine

import (
	"context"
	"time"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/metrics"
)

// Config contains engine behavior settings
type Config struct {
	// FirstMatchOnly stops evaluation at the first matching rule. This is
	// the default policy; when false, actions from all matching rules are
	// returned in priority order and each match is audited.
	FirstMatchOnly bool
}

// Engine evaluates routing rules against alerts. It is stateless apart
// from the audit write per match and safe for concurrent use.
type Engine struct {
	rules  routing.Repository
	logger *logger.Logger
	cfg    Config
}

// New creates a routing engine
func New(rules routing.Repository, log *logger.Logger, cfg Config) *Engine {
	return &Engine{
		rules:  rules,
		logger: log,
		cfg:    cfg,
	}
}

// Evaluate loads the enabled rules for teamID and evaluates them against
// the alert in priority order. One Match audit record is written per
// matched rule; with no match the result is a valid empty Evaluation, not
// an error. Failures loading rules or writing the audit record propagate
// to the caller, which decides whether to retry or fall back to default
// routing.
func (e *Engine) Evaluate(ctx context.Context, a *alert.Alert, teamID int64) (*routing.Evaluation, error) {
	start := time.Now()

	rules, err := e.rules.ListEnabled(ctx, teamID)
	if err != nil {
		metrics.RecordEvaluation("error", time.Since(start))
		return nil, err
	}

	result := &routing.Evaluation{
		MatchedRules: []*routing.Rule{},
		Actions:      []routing.Actions{},
	}

	for _, rule := range rules {
		verdict := EvaluateConditions(a, &rule.Conditions)
		if verdict.PatternErr != nil {
			e.logger.WithFields(map[string]interface{}{
				"rule_id": rule.ID,
				"team_id": teamID,
			}).WarnWithErr(verdict.PatternErr, "Routing rule has an invalid description pattern, clause treated as failed")
		}
		if !verdict.Matched {
			continue
		}

		if _, err := e.rules.CreateMatch(ctx, &routing.Match{
			AlertID:   a.ID,
			RuleID:    rule.ID,
			MatchedAt: time.Now().UTC(),
		}); err != nil {
			metrics.RecordEvaluation("error", time.Since(start))
			return nil, err
		}

		result.Matched = true
		result.MatchedRules = append(result.MatchedRules, rule)
		result.Actions = append(result.Actions, rule.Actions)
		metrics.RecordRuleMatch(rule.ID)

		e.logger.WithFields(map[string]interface{}{
			"rule_id":  rule.ID,
			"alert_id": a.ID,
			"team_id":  teamID,
			"priority": rule.Priority,
		}).Debug("Routing rule matched")

		if e.cfg.FirstMatchOnly {
			break
		}
	}

	if result.Matched {
		metrics.RecordEvaluation("matched", time.Since(start))
	} else {
		metrics.RecordEvaluation("no_match", time.Since(start))
	}

	return result, nil
}

// TestRule dry-runs a condition document against a caller-supplied sample
// alert. It shares EvaluateConditions with Evaluate, touches no store, and
// writes no audit record.
func (e *Engine) TestRule(conditions routing.Conditions, sample *alert.Alert) routing.TestResult {
	verdict := EvaluateConditions(sample, &conditions)
	if verdict.PatternErr != nil {
		e.logger.WarnWithErr(verdict.PatternErr, "Dry-run condition document has an invalid description pattern")
	}
	return routing.TestResult{
		Matches: verdict.Matched,
		Reason:  verdict.Reason,
	}
}
