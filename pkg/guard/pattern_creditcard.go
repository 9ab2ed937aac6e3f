package guard

// scanCreditCard implements a hand-coded scanner for 13-19 digit card
// numbers, optionally grouped by a single uniform separator ('-' or ' '),
// validated by the Luhn checksum. A run touching the end of the buffer is
// still growing and gets carried rather than judged.
func scanCreditCard(buf []byte) scanResult {
	var res scanResult
	n := len(buf)
	i := 0

	for i < n {
		if !isCardChar(buf[i]) {
			i++
			continue
		}

		start := i
		for i < n && isCardChar(buf[i]) {
			i++
		}
		runEnd := i
		touchesEnd := runEnd == n

		if touchesEnd {
			res.tailStart = start
			return res
		}

		trimStart, trimEnd := trimCardRun(buf[start:runEnd])
		matchStart, matchEnd := start+trimStart, start+trimEnd

		if matchEnd > matchStart && validCardRun(buf[matchStart:matchEnd]) {
			res.matches = append(res.matches, match{start: matchStart, end: matchEnd})
		}
	}

	res.tailStart = n
	return res
}

func isCardChar(c byte) bool { return isDigit(c) || c == '-' || c == ' ' }

// trimCardRun returns the offsets of run with any leading or trailing space
// removed. A card number surrounded by word-boundary spaces (e.g. "pay
// 4539-1488-0343-6467 now") would otherwise pull those spaces into the
// candidate run and have them latch as its separator ahead of the '-' the
// digits actually use.
func trimCardRun(run []byte) (start, end int) {
	start, end = 0, len(run)
	for start < end && run[start] == ' ' {
		start++
	}
	for end > start && run[end-1] == ' ' {
		end--
	}
	return start, end
}

func validCardRun(run []byte) bool {
	var sep byte
	sepSeen := false
	var digits []byte

	for _, c := range run {
		if isDigit(c) {
			digits = append(digits, c)
			continue
		}
		if !sepSeen {
			sep = c
			sepSeen = true
		} else if c != sep {
			return false
		}
	}

	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	return luhnValid(digits)
}
