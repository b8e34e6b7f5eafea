package util

// IsOpenStatus reports whether a bug status counts as still open and
// actionable. VERIFIED and RELEASE_PENDING bugs are resolved in all but
// name, so they count as closed here.
func IsOpenStatus(status string) bool {
	switch status {
	case "VERIFIED", "RELEASE_PENDING", "CLOSED":
		return false
	default:
		return true
	}
}

func StrSliceContains(strSlice []string, elem string) bool {
	for _, s := range strSlice {
		if s == elem {
			return true
		}
	}
	return false
}

// RemoveString returns a copy of the slice with every occurrence of elem
// dropped.
func RemoveString(strSlice []string, elem string) []string {
	out := make([]string, 0, len(strSlice))
	for _, s := range strSlice {
		if s != elem {
			out = append(out, s)
		}
	}
	return out
}
