package svcreg

// GetOptional resolves key as a T and reports whether that worked. Unlike Get it does not say
// why it did not: a missing key, a failed constructor and a wrong type all return false. Use it
// for services a caller can do without.
//
//	if metrics, ok := svcreg.GetOptional[*Metrics](reg, "metrics"); ok {
//	    metrics.Count("started")
//	}
func GetOptional[T any](r *Registry, key string) (T, bool) {
	result, err := Get[T](r, key)
	if err != nil {
		return result, false
	}
	return result, true
}
