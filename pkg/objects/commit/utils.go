package commit

func isHexString(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// LooksLikeCommitSHA reports whether s could be a full or abbreviated
// commit hash: all hex, between the 4-character resolution minimum and
// the full 40.
func LooksLikeCommitSHA(s string) bool {
	if !isHexString(s) {
		return false
	}
	return len(s) >= 4 && len(s) <= 40
}
