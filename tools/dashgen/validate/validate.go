// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to metrics the server does not export.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/manifest-analyzer/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings
// are informational.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Errs returns the errors as error values for errors.Join.
func (r Result) Errs() []error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = errors.New(e)
	}
	return errs
}

// Expr parses expr and returns the metric names it selects.
func Expr(expr string) ([]string, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}

	var names []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, vs.Name)
		}
		return nil
	})
	return names, nil
}

func (r *Result) checkExpr(where, expr string, known map[string]bool) {
	names, err := Expr(expr)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: invalid PromQL %q: %v", where, expr, err))
		return
	}
	for _, n := range names {
		if !known[n] {
			r.Errors = append(r.Errors, fmt.Sprintf("%s: unknown metric %q", where, n))
		}
	}
}

// panelJSON is the subset of a panel the validator reads.
type panelJSON struct {
	Title   string      `json:"title"`
	Type    string      `json:"type"`
	Panels  []panelJSON `json:"panels"`
	Targets []struct {
		Expr string `json:"expr"`
	} `json:"targets"`
}

// Dashboard checks every panel target expression. Duplicate panel titles
// and panels without targets are warnings.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var r Result

	data, err := json.Marshal(dash)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("encoding dashboard: %v", err))
		return r
	}
	var doc struct {
		Panels []panelJSON `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return r
	}

	seen := make(map[string]bool)
	var walk func(ps []panelJSON)
	walk = func(ps []panelJSON) {
		for _, p := range ps {
			if p.Type == "row" {
				walk(p.Panels)
				continue
			}
			if seen[p.Title] {
				r.Warnings = append(r.Warnings, fmt.Sprintf("duplicate panel title %q", p.Title))
			}
			seen[p.Title] = true
			if len(p.Targets) == 0 {
				r.Warnings = append(r.Warnings, fmt.Sprintf("panel %q has no targets", p.Title))
			}
			for _, t := range p.Targets {
				r.checkExpr(fmt.Sprintf("panel %q", p.Title), t.Expr, known)
			}
		}
	}
	walk(doc.Panels)

	return r
}

// Rules checks every rule expression. Recording rule names count as known
// for later rules in the same resource.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var r Result

	local := make(map[string]bool, len(known))
	for k, v := range known {
		local[k] = v
	}

	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			if name == "" {
				r.Errors = append(r.Errors, fmt.Sprintf("group %q: rule without record or alert name", g.Name))
			}
			r.checkExpr(fmt.Sprintf("rule %q", name), rule.Expr, local)
			if rule.Record != "" {
				local[rule.Record] = true
			}
		}
	}

	return r
}
