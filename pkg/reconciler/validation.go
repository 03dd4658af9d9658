package reconciler

import "fmt"

// validate checks the invariants of a finished pass and returns a warning
// for each violation. Violations indicate a bug, not bad input.
func validate(r *Result) []string {
	var warnings []string
	seen := make(map[string]bool, len(r.Customers))
	for _, c := range r.Customers {
		if c.Key == "" {
			warnings = append(warnings, "customer without an identity key")
		}
		if seen[c.Key] {
			warnings = append(warnings, fmt.Sprintf("customer %q appears more than once", c.Key))
		}
		seen[c.Key] = true
	}
	if r.Metadata.Stats.CustomersCreated != len(r.Customers) {
		warnings = append(warnings, fmt.Sprintf("created %d customers but normalized %d",
			r.Metadata.Stats.CustomersCreated, len(r.Customers)))
	}
	return warnings
}
