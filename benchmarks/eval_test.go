package benchmarks

import (
	"fmt"
	"testing"

	"github.com/sysmuse/exprflow/pkg/exprflow"
	"github.com/sysmuse/exprflow/pkg/exprflow/catalog"
	"github.com/sysmuse/exprflow/pkg/exprflow/parse"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

func benchCatalog() *catalog.Catalog {
	c := catalog.New()
	catalog.InstallBuiltins(c)
	return c
}

func mustCompile(b *testing.B, text string, mode parse.Mode, cat *catalog.Catalog) *parse.Compiled {
	b.Helper()
	compiled, err := parse.Compile(text, mode, cat)
	if err != nil {
		b.Fatal(err)
	}
	return compiled
}

// BenchmarkCompile_Call compiles a nested call-style expression.
func BenchmarkCompile_Call(b *testing.B) {
	cat := benchCatalog()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = parse.Compile("add(a, mul(b, add(c, 2)))", parse.ModeCall, cat)
	}
}

// BenchmarkCompile_Infix compiles an infix expression with the full
// precedence chain.
func BenchmarkCompile_Infix(b *testing.B) {
	cat := benchCatalog()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = parse.Compile("a + b * 2 > c && a < 100 || ok == 1", parse.ModeInfix, cat)
	}
}

// BenchmarkEval_Compiled evaluates a precompiled expression.
func BenchmarkEval_Compiled(b *testing.B) {
	cat := benchCatalog()
	compiled := mustCompile(b, "a + b * 2 > c", parse.ModeInfix, cat)

	ctx := value.NewContext()
	ctx.Set("a", value.Int(5))
	ctx.Set("b", value.Int(3))
	ctx.Set("c", value.Int(4))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = compiled.Eval(ctx)
	}
}

// buildChain builds n expressions where each key references the
// previous one.
func buildChain(n int) map[string]string {
	exprs := make(map[string]string, n)
	exprs["k0"] = "1 + 1"
	for i := 1; i < n; i++ {
		exprs[fmt.Sprintf("k%d", i)] = fmt.Sprintf("k%d + 1", i-1)
	}
	return exprs
}

// BenchmarkBatch_Chain_10 evaluates a 10-key dependency chain.
func BenchmarkBatch_Chain_10(b *testing.B) {
	benchmarkChain(b, 10)
}

// BenchmarkBatch_Chain_50 evaluates a 50-key dependency chain.
func BenchmarkBatch_Chain_50(b *testing.B) {
	benchmarkChain(b, 50)
}

// BenchmarkBatch_Chain_100 evaluates a 100-key dependency chain.
func BenchmarkBatch_Chain_100(b *testing.B) {
	benchmarkChain(b, 100)
}

func benchmarkChain(b *testing.B, n int) {
	mgr := exprflow.New(benchCatalog())
	exprs := buildChain(n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := mgr.EvaluateBatch(exprs, nil, parse.ModeInfix)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkResolveOrder_100 resolves the order of a 100-key chain
// without evaluating.
func BenchmarkResolveOrder_100(b *testing.B) {
	mgr := exprflow.New(benchCatalog())
	exprs := buildChain(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := mgr.ResolveOrder(exprs)
		if err != nil {
			b.Fatal(err)
		}
	}
}
