package guard

// scanEmail implements a hand-coded DFA for local@domain.tld addresses:
// local part is one or more of [A-Za-z0-9._%+-], the domain is one or more
// dot-separated labels of [A-Za-z0-9-] (not starting or ending with '-'),
// and the final label (the tld) must be two to twenty-four letters.
func scanEmail(buf []byte) scanResult {
	const (
		idle = iota
		inLocal
		inLabel
	)

	var res scanResult
	state := idle
	localStart := 0
	labelStart := 0
	dotSeen := false

	isLocalChar := func(c byte) bool {
		return isASCIIAlnum(c) || c == '.' || c == '_' || c == '%' || c == '+' || c == '-'
	}

	i := 0
	for i < len(buf) {
		c := buf[i]
		switch state {
		case idle:
			if isLocalChar(c) {
				localStart = i
				state = inLocal
			}
			i++
		case inLocal:
			if c == '@' && i > localStart {
				state = inLabel
				labelStart = i + 1
				dotSeen = false
				i++
			} else if isLocalChar(c) {
				i++
			} else {
				state = idle
				// c itself may start a fresh candidate; reprocess without advancing.
			}
		case inLabel:
			switch {
			case isASCIIAlnum(c):
				i++
			case c == '-':
				if i == labelStart {
					// label cannot start with '-': candidate is spurious.
					state = idle
				} else {
					i++
				}
			case c == '.':
				if i == labelStart || buf[i-1] == '-' {
					state = idle
					break
				}
				labelStart = i + 1
				dotSeen = true
				i++
			default:
				// Boundary: decide whether the candidate is a confirmed match.
				if dotSeen && validTLD(buf, labelStart, i) {
					res.matches = append(res.matches, match{start: localStart, end: i})
				}
				state = idle
				// reprocess c in idle state without advancing i
			}
		}
	}

	switch state {
	case inLocal:
		res.tailStart = localStart
	case inLabel:
		res.tailStart = localStart
	default:
		res.tailStart = len(buf)
	}
	return res
}

func validTLD(buf []byte, start, end int) bool {
	n := end - start
	if n < 2 || n > 24 {
		return false
	}
	if buf[end-1] == '-' {
		return false
	}
	for i := start; i < end; i++ {
		if !isASCIIAlpha(buf[i]) {
			return false
		}
	}
	return true
}
