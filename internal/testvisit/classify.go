// Package testvisit discovers test symbols by walking C++ and QML syntax
// trees. Each visitor is single-use: construct it, walk once, read the result.
package testvisit

import (
	"strings"

	"github.com/phobologic/testscan/internal/model"
)

// DataSuffix marks a data function, e.g. "compare_data" supplies "compare".
const DataSuffix = "_data"

// specialFunctions run around a test run and are not tests themselves. The
// set is shared by QTest and Quick tests.
var specialFunctions = map[string]struct{}{
	"initTestCase":    {},
	"cleanupTestCase": {},
	"init":            {},
	"cleanup":         {},
}

// IsSpecialFunction reports whether name is a lifecycle function.
func IsSpecialFunction(name string) bool {
	_, ok := specialFunctions[name]
	return ok
}

// Classify returns the kind for an admitted test method name.
func Classify(name string) model.Kind {
	switch {
	case IsSpecialFunction(name):
		return model.SpecialFunction
	case strings.HasSuffix(name, DataSuffix):
		return model.DataFunction
	default:
		return model.Function
	}
}

// isQuickTestFunction reports whether a QML function takes part in a test case.
func isQuickTestFunction(name string) bool {
	return strings.HasPrefix(name, "test_") ||
		strings.HasPrefix(name, "benchmark_") ||
		strings.HasSuffix(name, DataSuffix) ||
		IsSpecialFunction(name)
}
