package snapshot

// ParseDuration converts the upstream compact duration token (ISO 8601, e.g.
// "PT1H2M3S" or "P1DT4H") to whole seconds. Absent or malformed input yields
// 0 rather than an error; per-video duration is best-effort data.
func ParseDuration(s string) int {
	if len(s) < 2 || s[0] != 'P' {
		return 0
	}

	total := 0
	num := 0
	hasNum := false
	inTime := false

	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
			hasNum = true
		case r == 'T':
			inTime = true
			num, hasNum = 0, false
		case r == 'D' && hasNum:
			total += num * 86400
			num, hasNum = 0, false
		case r == 'H' && inTime && hasNum:
			total += num * 3600
			num, hasNum = 0, false
		case r == 'M' && inTime && hasNum:
			total += num * 60
			num, hasNum = 0, false
		case r == 'S' && inTime && hasNum:
			total += num
			num, hasNum = 0, false
		default:
			return 0
		}
	}

	return total
}
