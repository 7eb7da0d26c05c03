package svcreg

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkGetResolved(b *testing.B) {
	reg := New()
	reg.MustAdd(NewDescriptor("widget", func() *testWidget { return &testWidget{42} }))
	_, _ = reg.Get("widget")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.Get("widget")
	}
}

func BenchmarkGetTyped(b *testing.B) {
	reg := New()
	reg.MustAdd(NewDescriptor("widget", func() *testWidget { return &testWidget{42} }))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Get[*testWidget](reg, "widget")
	}
}

// BenchmarkResolveChain builds a fresh chain of constructors each iteration.
func BenchmarkResolveChain(b *testing.B) {
	const depth = 10
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		reg := New()
		reg.MustAdd(NewDescriptor("node.0", func() *testWidget { return &testWidget{0} }))
		for n := 1; n < depth; n++ {
			reg.MustAdd(NewDescriptor(fmt.Sprintf("node.%d", n), func(ctx context.Context, w *testWidget) *testWidget {
				return &testWidget{w.Val + 1}
			}, fmt.Sprintf("node.%d", n-1)))
		}
		b.StartTimer()

		_, _ = reg.Get(fmt.Sprintf("node.%d", depth-1))
	}
}

func BenchmarkConstructor(b *testing.B) {
	reg := New()
	reg.MustAdd(NewDescriptor("dependency", Constructor(func(deps ...any) (any, error) {
		return &testWidget{1}, nil
	})))
	reg.MustAdd(NewDescriptor("service", Constructor(func(deps ...any) (any, error) {
		return &testDoodad{fmt.Sprint(deps[0].(*testWidget).Val)}, nil
	}), "dependency"))
	_, _ = reg.Get("service")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.Get("service")
	}
}
