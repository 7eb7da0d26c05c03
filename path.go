package svcreg

// visitPath is the ordered list of keys being built on the current resolution chain. It is
// never modified in place: extend returns a copy, so every branch of the dependency tree only
// sees its own ancestors.
type visitPath []string

func (p visitPath) contains(key string) bool {
	for _, k := range p {
		if k == key {
			return true
		}
	}
	return false
}

func (p visitPath) extend(key string) visitPath {
	next := make(visitPath, len(p), len(p)+1)
	copy(next, p)
	return append(next, key)
}

// cycle returns the part of the path starting at the first occurrence of key, closed with key
// again. Keys before that occurrence are not part of the cycle and are dropped.
func (p visitPath) cycle(key string) []string {
	for i, k := range p {
		if k == key {
			result := make([]string, 0, len(p)-i+1)
			result = append(result, p[i:]...)
			return append(result, key)
		}
	}
	return []string{key, key}
}

func (r *Registry) cycleError(path visitPath, key string) error {
	err := &DependencyError{
		Kind:   ErrCircularDependency,
		Key:    key,
		Path:   path.cycle(key),
		Status: r.Status(),
	}
	r.logger.Debug().Strs("cycle", err.Path).Msg("circular dependency detected")
	return err
}
