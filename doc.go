// Package svcreg provides a lazy service registry. Services are registered under a string key
// together with something that knows how to build them and the keys of the services they depend
// on. Nothing is built at registration time: the first call to Get for a key builds its
// dependencies depth-first, in declared order, passes them to the constructor and caches the
// result. Every service is a singleton for the lifetime of the registry.
//
// Dependency cycles are reported as a CircularDependency error that names only the keys taking
// part in the cycle, for example "circular dependency: a -> b -> a".
//
// The Registry object has the detailed documentation. There are also generic helpers (Get,
// MustGet, GetOptional) that make typed access more concise.
package svcreg
