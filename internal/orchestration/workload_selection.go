package orchestration

import (
	"github.com/agbru/iterprogress/internal/workload"
)

// GetWorkloadsToRun resolves names against the factory. The name "all"
// expands to every registered workload in sorted order; duplicates are run
// once.
//
// Parameters:
//   - names: The workload names from the configuration.
//   - factory: The registry to retrieve workloads from.
//
// Returns:
//   - []workload.Workload: The workloads to execute, in request order.
//   - error: The lookup error for the first unknown name.
func GetWorkloadsToRun(names []string, factory workload.Factory) ([]workload.Workload, error) {
	seen := make(map[string]bool, len(names))
	var out []workload.Workload
	add := func(name string) error {
		if seen[name] {
			return nil
		}
		w, err := factory.Get(name)
		if err != nil {
			return err
		}
		seen[name] = true
		out = append(out, w)
		return nil
	}
	for _, name := range names {
		if name == "all" {
			for _, k := range factory.List() {
				if err := add(k); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := add(name); err != nil {
			return nil, err
		}
	}
	return out, nil
}
