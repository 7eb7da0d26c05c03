package svcreg

import (
	"fmt"
	"reflect"
	"strings"
)

// Status is a diagnostic tool that returns a string describing the state of the registry. The
// first line says whether the registry is still open for registration. Then there is one line
// per service, sorted by key, showing whether it has been resolved, its dependency keys in
// declared order and the signature of its constructor.
//
// A copy of this is attached to CircularDependency errors to help track down how the cycle
// came about.
func (r *Registry) Status() string {
	r.tableLock.RLock()
	defer r.tableLock.RUnlock()

	result := strings.Builder{}
	if r.writable {
		result.WriteString("registry - open")
	} else {
		result.WriteString("registry - closed")
	}

	for _, key := range r.sortedKeys() {
		d := r.descriptors[key]
		state := "unresolved"
		if d.IsResolved() {
			state = "resolved"
		}
		result.WriteString("\n")
		result.WriteString(fmt.Sprintf("%s - %s - deps: [%s] - constructor: %s",
			key, state, strings.Join(d.dependencyKeys, ", "), formatConstructorDebug(d.constructible)))
	}

	return result.String()
}

// formatConstructorDebug returns a string representation of a constructible. This is used
// instead of the native `%#v` formatter to not return the raw address of the function as that's
// not important for this and simplifies testing.
func formatConstructorDebug(constructible any) string {
	if constructible == nil {
		return "-"
	}
	fnType := reflect.TypeOf(constructible)
	if fnType.Kind() != reflect.Func {
		// Custom builders may use anything as a constructible.
		return fnType.String()
	}
	builder := strings.Builder{}
	builder.WriteString("(")
	for i := 0; i < fnType.NumIn(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		if fnType.IsVariadic() && i == fnType.NumIn()-1 {
			builder.WriteString("...")
			builder.WriteString(fnType.In(i).Elem().String())
		} else {
			builder.WriteString(fnType.In(i).String())
		}
	}
	builder.WriteString(") ")
	for i := 0; i < fnType.NumOut(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fnType.Out(i).String())
	}
	return builder.String()
}
