package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/routing"
)

// Verdict is the result of evaluating one condition document against one
// alert. Reason explains the first failing clause, or why the document
// matched; it is surfaced to the rule-authoring UI by the dry-run endpoint.
type Verdict struct {
	Matched bool
	Reason  string
	// PatternErr is set when the descriptionMatches clause failed to
	// compile. The clause is treated as failed; the caller decides whether
	// to log it. It is never surfaced as an engine error.
	PatternErr error
}

// EvaluateConditions evaluates a condition document against an alert. It is
// a pure function shared by production evaluation and the dry-run endpoint,
// so the two can never disagree.
//
// Semantics: every present clause must hold (conjunctive). matchMode "any"
// is accepted in the schema but deliberately not honored; see the package
// documentation. An empty document matches everything.
func EvaluateConditions(a *alert.Alert, c *routing.Conditions) Verdict {
	if c == nil || c.IsEmpty() {
		return Verdict{Matched: true, Reason: "no conditions set, rule matches all alerts"}
	}

	// Labels: every key must exist on the alert with an exact,
	// case-sensitive value match.
	for key, want := range c.Labels {
		got, ok := a.Labels[key]
		if !ok {
			return Verdict{Reason: fmt.Sprintf("label %q not present on alert", key)}
		}
		if got != want {
			return Verdict{Reason: fmt.Sprintf("label %q is %q, expected %q", key, got, want)}
		}
	}

	// Source: exact equality. A rule expecting "" matches only an alert
	// whose source is empty.
	if c.Source != nil && a.Source != *c.Source {
		return Verdict{Reason: fmt.Sprintf("source %q does not equal %q", a.Source, *c.Source)}
	}

	// Severity: membership in the set. A scalar was already coerced to a
	// one-element set during decoding.
	if len(c.Severity) > 0 {
		found := false
		for _, s := range c.Severity {
			if a.Severity == s {
				found = true
				break
			}
		}
		if !found {
			return Verdict{Reason: fmt.Sprintf("severity %q not in [%s]", a.Severity, strings.Join(c.Severity, " "))}
		}
	}

	// Title: case-insensitive substring.
	if c.TitleContains != "" {
		if !strings.Contains(strings.ToLower(a.Title), strings.ToLower(c.TitleContains)) {
			return Verdict{Reason: fmt.Sprintf("title does not contain %q", c.TitleContains)}
		}
	}

	// Description: regex, compiled freshly per invocation since rule
	// content is not trusted to be stable. A pattern that does not compile
	// fails the clause rather than the engine; one bad rule must not
	// poison evaluation for every alert.
	if c.DescriptionMatches != "" {
		re, err := regexp.Compile(c.DescriptionMatches)
		if err != nil {
			return Verdict{
				Reason:     fmt.Sprintf("description pattern %q is invalid", c.DescriptionMatches),
				PatternErr: err,
			}
		}
		if !re.MatchString(a.Description) {
			return Verdict{Reason: fmt.Sprintf("description does not match %q", c.DescriptionMatches)}
		}
	}

	return Verdict{Matched: true, Reason: "all conditions satisfied"}
}
