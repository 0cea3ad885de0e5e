// internal/puzzle/validate.go
//
// Structural validation of a puzzle definition.
// Every check runs and every problem is reported, so an author can fix the
// whole puzzle in one pass:
//   1. Total item count must equal TotalItems.
//   2. Items must be unique across groups, ignoring case (one aggregate message).
//   3. Per group: non-blank title, at least one item.

package puzzle

import (
	"fmt"
	"strings"
)

// Violations is the ordered list of human-readable validation messages.
// An empty list means the definition is valid.
type Violations []string

// OK reports whether there are no violations.
func (v Violations) OK() bool { return len(v) == 0 }

// ValidationError carries violations through error-returning APIs.
type ValidationError struct {
	Violations Violations
}

func (e *ValidationError) Error() string {
	return "puzzle: invalid definition: " + strings.Join(e.Violations, "; ")
}

// Err returns nil for a valid definition, otherwise a *ValidationError.
func (v Violations) Err() error {
	if v.OK() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// Validate checks d and returns all violations found.
func Validate(d Definition) Violations {
	v := Violations{}

	if n := d.ItemCount(); n != TotalItems {
		v = append(v, fmt.Sprintf("Grid size mismatch: %d items added, but target is %d.", n, TotalItems))
	}

	if hasDuplicates(d.AllItems()) {
		v = append(v, "Duplicate items found across groups. All items must be unique.")
	}

	for _, k := range Keys {
		g := d.groups[k-1]
		if strings.TrimSpace(g.Title) == "" {
			v = append(v, fmt.Sprintf("Group %d has an empty title.", k))
		}
		if len(g.Items) == 0 {
			label := g.Title
			if strings.TrimSpace(label) == "" {
				label = UntitledLabel
			}
			v = append(v, fmt.Sprintf("Group %d \"%s\" has no items.", k, label))
		}
	}
	return v
}

// hasDuplicates reports a case-insensitive collision anywhere in items.
func hasDuplicates(items []string) bool {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		key := strings.ToLower(it)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}
