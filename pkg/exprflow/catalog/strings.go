package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sysmuse/exprflow/pkg/exprflow/template"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// InstallStrings registers the builtin string operations, including
// the template operation, which reads the ambient evaluation context.
func InstallStrings(c *Catalog) {
	c.RegisterString("append", NewOperation(value.KindString, []string{"a", "b"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			return value.String(strArg(args, "a") + strArg(args, "b")), nil
		}), "concat")

	c.RegisterString("substring", NewOperation(value.KindString, []string{"value", "start", "end"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			s := strArg(args, "value")
			start, err := intArg(args, "start")
			if err != nil {
				return value.Absent(), err
			}
			end, err := intArg(args, "end")
			if err != nil {
				return value.Absent(), err
			}
			if end > len(s) {
				end = len(s)
			}
			if start < 0 || start > len(s) || end < start {
				return value.Absent(), fmt.Errorf("substring bounds [%d:%d] out of range for length %d", start, end, len(s))
			}
			return value.String(s[start:end]), nil
		}))

	c.RegisterString("mid", NewOperation(value.KindString, []string{"value", "start", "length"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			s := strArg(args, "value")
			start, err := intArg(args, "start")
			if err != nil {
				return value.Absent(), err
			}
			length, err := intArg(args, "length")
			if err != nil {
				return value.Absent(), err
			}
			if start < 0 || start > len(s) || length < 0 {
				return value.Absent(), fmt.Errorf("mid bounds [%d,+%d] out of range for length %d", start, length, len(s))
			}
			end := start + length
			if end > len(s) {
				end = len(s)
			}
			return value.String(s[start:end]), nil
		}))

	c.RegisterString("removeExt", NewOperation(value.KindString, []string{"value"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			name := strArg(args, "value")
			if dot := strings.LastIndex(name, "."); dot > 0 {
				return value.String(name[:dot]), nil
			}
			return value.String(name), nil
		}))

	c.RegisterString("fileName", NewOperation(value.KindString, []string{"value"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			path := strArg(args, "value")
			if path == "" {
				return value.String(""), nil
			}
			return value.String(filepath.Base(path)), nil
		}))

	c.RegisterString("pathOf", NewOperation(value.KindString, []string{"value"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			path := strArg(args, "value")
			if !strings.ContainsAny(path, `/\`) {
				return value.String(""), nil
			}
			return value.String(filepath.Dir(path)), nil
		}))

	c.RegisterString("toUpper", stringOp1(strings.ToUpper))
	c.RegisterString("toLower", stringOp1(strings.ToLower))
	c.RegisterString("trim", stringOp1(strings.TrimSpace))

	// The delimiters may be omitted; Format falls back to {braces}.
	c.RegisterString("template", NewOperationOptional(value.KindString, []string{"template", "start", "end"}, 1,
		func(args map[string]value.Value, ctx *value.Context) (value.Value, error) {
			tmpl := strArg(args, "template")
			start := strArg(args, "start")
			end := strArg(args, "end")
			return value.String(template.Format(tmpl, ctx, start, end)), nil
		}))
}

// stringOp1 builds a one-argument string transform over value.
func stringOp1(fn func(s string) string) Operation {
	return NewOperation(value.KindString, []string{"value"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			return value.String(fn(strArg(args, "value"))), nil
		})
}
