package checks

import "mlopsaudit/internal/rules"

// Suite returns the checks in evaluation order. The order fixes the order of
// missing components in an audit, so append new checks at the end.
func Suite() []rules.Check {
	return []rules.Check{
		&StructureCheck{},
		&CICDCheck{},
		&MLflowCheck{},
		&TestsCheck{},
		&DockerCheck{},
		&VersioningCheck{},
		&ReproducibilityCheck{},
	}
}

func init() {
	rules.Register(Suite()...)
}
