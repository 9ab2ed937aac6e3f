package guard

// scanURL implements a hand-coded scanner for http:// and https:// URLs. A
// match starts at the protocol prefix, requires at least one alphanumeric
// host character immediately after it, and then extends until a
// whitespace character, quotation mark, or angle bracket (or the end of the
// buffer, in which case the candidate is still growing and gets carried).
func scanURL(buf []byte) scanResult {
	var res scanResult
	n := len(buf)
	pos := 0

	for pos < n {
		start, protoLen := findProtocol(buf, pos)
		if start < 0 {
			// No complete protocol prefix from pos onward, but the buffer's
			// tail might hold the first few bytes of one split across the
			// next Feed call; carry from there instead of the buffer end.
			res.tailStart = pos + partialProtocolStart(buf[pos:])
			return res
		}

		hostStart := start + protoLen
		if hostStart >= n {
			res.tailStart = start
			return res
		}
		if !isASCIIAlnum(buf[hostStart]) {
			pos = hostStart
			continue
		}

		end := hostStart
		for end < n && !isURLTerminator(buf[end]) {
			end++
		}
		if end == n {
			res.tailStart = start
			return res
		}

		res.matches = append(res.matches, match{start: start, end: end})
		pos = end
	}

	res.tailStart = n
	return res
}

func findProtocol(buf []byte, from int) (start, protoLen int) {
	for i := from; i < len(buf); i++ {
		if hasPrefixAt(buf, i, "https://") {
			return i, 8
		}
		if hasPrefixAt(buf, i, "http://") {
			return i, 7
		}
	}
	return -1, 0
}

func hasPrefixAt(buf []byte, at int, prefix string) bool {
	if at+len(prefix) > len(buf) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if buf[at+i] != prefix[i] {
			return false
		}
	}
	return true
}

// partialProtocolStart returns the offset of the earliest byte in buf that
// could be the start of an as-yet-incomplete "http://" or "https://" prefix,
// or len(buf) if no tail of buf is a proper prefix of either.
func partialProtocolStart(buf []byte) int {
	const maxProtoLen = 8 // len("https://")
	from := len(buf) - (maxProtoLen - 1)
	if from < 0 {
		from = 0
	}
	for i := from; i < len(buf); i++ {
		if isPartialProtocolPrefix(buf[i:]) {
			return i
		}
	}
	return len(buf)
}

func isPartialProtocolPrefix(s []byte) bool {
	return isStrictPrefix(s, "https://") || isStrictPrefix(s, "http://")
}

// isStrictPrefix reports whether s is a non-empty, proper (shorter) prefix
// of full; a full-length or longer match is handled by findProtocol instead.
func isStrictPrefix(s []byte, full string) bool {
	if len(s) == 0 || len(s) >= len(full) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != full[i] {
			return false
		}
	}
	return true
}

func isURLTerminator(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '"', '\'', '<', '>':
		return true
	default:
		return false
	}
}
