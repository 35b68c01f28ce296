package catalog

import (
	"fmt"

	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// InstallBuiltins registers all builtin operation packs.
func InstallBuiltins(c *Catalog) {
	InstallBoolean(c)
	InstallNumeric(c)
	InstallStrings(c)
}

// numArg extracts a numeric argument, coercing integers, floats, and
// numeric strings.
func numArg(args map[string]value.Value, name string) (float64, error) {
	v, ok := args[name]
	if !ok || v.IsAbsent() {
		return 0, fmt.Errorf("expected number for argument %q but got absent", name)
	}
	f, err := v.Number()
	if err != nil {
		return 0, fmt.Errorf("argument %q: %w", name, err)
	}
	return f, nil
}

// boolArg extracts a boolean argument, coercing textual booleans.
func boolArg(args map[string]value.Value, name string) (bool, error) {
	v, ok := args[name]
	if !ok || v.IsAbsent() {
		return false, fmt.Errorf("expected boolean for argument %q but got absent", name)
	}
	b, err := v.Truth()
	if err != nil {
		return false, fmt.Errorf("argument %q: %w", name, err)
	}
	return b, nil
}

// intArg extracts an integer-valued argument for string indexing.
func intArg(args map[string]value.Value, name string) (int, error) {
	f, err := numArg(args, name)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// strArg renders an argument as a string. Absent renders as "".
func strArg(args map[string]value.Value, name string) string {
	return args[name].Render()
}
