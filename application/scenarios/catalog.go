package scenarios

import "practice_automation/application/harness"

// All returns every suite in run order.
func All() []harness.Suite {
	return []harness.Suite{Buttons(), Radio(), TextBox(), Transfer()}
}

// Names lists "suite/scenario" for every scenario, skipped ones included.
func Names(suites []harness.Suite) []string {
	var names []string
	for _, s := range suites {
		for _, sc := range s.Scenarios {
			names = append(names, s.Name+"/"+sc.Name)
		}
	}
	return names
}
