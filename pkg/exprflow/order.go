package exprflow

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sysmuse/exprflow/pkg/exprflow/template"
)

// wordPattern matches bare word tokens: identifiers, numbers, and
// operation names alike. Tokens matching another batch key are treated
// as dependencies.
var wordPattern = regexp.MustCompile(`\b\w+\b`)

// ResolveOrder computes a safe evaluation order for a batch: every key
// is evaluated after the keys its expression references. The order is
// deterministic for a given batch.
//
// Returns a *CycleError if the reference graph among keys is cyclic.
func (m *Manager) ResolveOrder(exprs map[string]string) ([]string, error) {
	deps := dependencies(exprs)

	keys := make([]string, 0, len(exprs))
	for key := range exprs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sorted := make([]string, 0, len(exprs))
	visited := make(map[string]bool, len(exprs))
	visiting := make(map[string]bool)

	var visit func(key string) error
	visit = func(key string) error {
		if visited[key] {
			return nil
		}
		if visiting[key] {
			return &CycleError{Key: key}
		}
		visiting[key] = true
		for _, dep := range deps[key] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(visiting, key)
		visited[key] = true
		sorted = append(sorted, key)
		return nil
	}

	for _, key := range keys {
		if err := visit(key); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// dependencies builds the reference graph: for each key, the other
// batch keys its expression text mentions. Two scans contribute edges:
// bare word tokens anywhere in the text, and {placeholder} names
// inside a template("...") expression. A key mentioning itself creates
// no edge; the reference reads the key's prior binding.
func dependencies(exprs map[string]string) map[string][]string {
	deps := make(map[string][]string, len(exprs))
	for key, expr := range exprs {
		seen := make(map[string]bool)

		for _, token := range wordPattern.FindAllString(expr, -1) {
			if token == key {
				continue
			}
			if _, isKey := exprs[token]; isKey {
				seen[token] = true
			}
		}

		if tmpl, ok := templateArgument(expr); ok {
			for _, name := range template.Placeholders(tmpl) {
				if name == key {
					continue
				}
				if _, isKey := exprs[name]; isKey {
					seen[name] = true
				}
			}
		}

		edges := make([]string, 0, len(seen))
		for dep := range seen {
			edges = append(edges, dep)
		}
		sort.Strings(edges)
		deps[key] = edges
	}
	return deps
}

// templateArgument extracts the quoted template text from a
// template("...") expression, spanning first to last quote.
func templateArgument(expr string) (string, bool) {
	trimmed := strings.TrimSpace(expr)
	if !strings.HasPrefix(trimmed, "template(") {
		return "", false
	}
	start := strings.Index(trimmed, `"`)
	end := strings.LastIndex(trimmed, `"`)
	if start < 0 || end <= start {
		return "", false
	}
	return trimmed[start+1 : end], true
}
