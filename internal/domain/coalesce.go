package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Float64PtrIfNonZero returns nil for zero so optional numeric fields
// serialize as null instead of 0.
func Float64PtrIfNonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
