package svcreg

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Builder turns a constructible and its resolved dependencies into an instance. The
// dependencies are in the order the descriptor declared them. Whatever error Build returns is
// passed to the caller of Get unchanged.
type Builder interface {
	Build(ctx context.Context, constructible any, dependencies []any) (any, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx context.Context, constructible any, dependencies []any) (any, error)

func (f BuilderFunc) Build(ctx context.Context, constructible any, dependencies []any) (any, error) {
	return f(ctx, constructible, dependencies)
}

// Constructor is a constructible that takes its dependencies untyped. The ReflectBuilder calls
// it directly.
type Constructor func(dependencies ...any) (any, error)

// ReflectBuilder is the default Builder. The constructible must be a function; its parameters
// receive the dependencies positionally. A leading context.Context parameter is filled with the
// resolution context and does not count as a dependency. A variadic function takes all the
// remaining dependencies in its last parameter.
//
// The function must return one value, optionally followed by an error:
//
//	func NewUserRepo(db *Database, log *Logger) *UserRepo
//	func NewDatabase(ctx context.Context, cfg *Config) (*Database, error)
//
// A nil dependency is passed as the zero value of the parameter type.
type ReflectBuilder struct{}

func (ReflectBuilder) Build(ctx context.Context, constructible any, dependencies []any) (any, error) {
	if c, ok := constructible.(Constructor); ok {
		return c(dependencies...)
	}

	fnType := reflect.TypeOf(constructible)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return nil, &BuildError{Message: "constructible must be a function", ConstructorType: fnType}
	}

	info := getTypeInfo(fnType)
	if info.valueCount != 1 || info.errorCount > 1 {
		return nil, &BuildError{
			Message:         "constructor must return one value, optionally followed by an error",
			ConstructorType: fnType,
		}
	}

	params, err := constructorParams(ctx, fnType, info, dependencies)
	if err != nil {
		return nil, err
	}

	results := reflect.ValueOf(constructible).Call(params)
	if info.errorIndex >= 0 {
		if errVal := results[info.errorIndex]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}
	return results[info.valueIndex].Interface(), nil
}

// constructorParams lines the dependencies up with the constructor's parameters.
func constructorParams(ctx context.Context, fnType reflect.Type, info *typeInfo, dependencies []any) ([]reflect.Value, error) {
	var params []reflect.Value
	if info.takesContext {
		params = append(params, reflect.ValueOf(ctx))
	}

	fixed := len(info.dependencyParams)
	if len(dependencies) < fixed || (!info.variadic && len(dependencies) != fixed) {
		return nil, &BuildError{
			Message:         fmt.Sprintf("constructor takes %d dependencies, got %d", fixed, len(dependencies)),
			ConstructorType: fnType,
		}
	}

	for i, dep := range dependencies {
		var paramType reflect.Type
		if i < fixed {
			paramType = info.dependencyParams[i]
		} else {
			paramType = info.variadicElem
		}

		if dep == nil {
			params = append(params, reflect.Zero(paramType))
			continue
		}
		depVal := reflect.ValueOf(dep)
		if !canAssign(depVal.Type(), paramType) {
			return nil, &BuildError{
				Message:         fmt.Sprintf("dependency %d is %v, not assignable to %v", i, depVal.Type(), paramType),
				ConstructorType: fnType,
			}
		}
		params = append(params, depVal)
	}
	return params, nil
}
