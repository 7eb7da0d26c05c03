package svcreg

import (
	"reflect"
	"sync"
)

// typeInfo caches what the ReflectBuilder needs to know about a constructor's signature
type typeInfo struct {
	takesContext bool

	// Parameters that receive dependencies, excluding the leading context and the variadic
	// parameter.
	dependencyParams []reflect.Type
	variadic         bool
	variadicElem     reflect.Type

	valueIndex int
	valueCount int
	errorIndex int
	errorCount int
}

// Global type cache to avoid repeated reflection operations
var globalTypeCache sync.Map // map[reflect.Type]*typeInfo

// getTypeInfo returns cached information for a function type, computing it if necessary
func getTypeInfo(t reflect.Type) *typeInfo {
	if cached, ok := globalTypeCache.Load(t); ok {
		return cached.(*typeInfo)
	}

	info := &typeInfo{
		valueIndex: -1,
		errorIndex: -1,
		variadic:   t.IsVariadic(),
	}

	first := 0
	if t.NumIn() > 0 && t.In(0) == contextType {
		info.takesContext = true
		first = 1
	}
	last := t.NumIn()
	if info.variadic {
		last--
		info.variadicElem = t.In(last).Elem()
	}
	for i := first; i < last; i++ {
		info.dependencyParams = append(info.dependencyParams, t.In(i))
	}

	for i := 0; i < t.NumOut(); i++ {
		if t.Out(i) == errorType {
			info.errorCount++
			info.errorIndex = i
		} else {
			info.valueCount++
			info.valueIndex = i
		}
	}

	actual, _ := globalTypeCache.LoadOrStore(t, info)
	return actual.(*typeInfo)
}

type assignCacheKey struct {
	concrete reflect.Type
	target   reflect.Type
}

// assignCache remembers which dependency types can be passed to which parameter types.
var assignCache = struct {
	mu    sync.RWMutex
	cache map[assignCacheKey]bool
}{
	cache: make(map[assignCacheKey]bool),
}

// canAssign checks if a value of the concrete type can be passed as the target type, with caching
func canAssign(concrete, target reflect.Type) bool {
	if concrete == target {
		return true
	}

	key := assignCacheKey{concrete: concrete, target: target}

	assignCache.mu.RLock()
	if result, ok := assignCache.cache[key]; ok {
		assignCache.mu.RUnlock()
		return result
	}
	assignCache.mu.RUnlock()

	result := concrete.AssignableTo(target)

	assignCache.mu.Lock()
	assignCache.cache[key] = result
	assignCache.mu.Unlock()

	return result
}
