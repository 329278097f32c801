package irc

import "bytes"

// lineCodec turns a stream of bytes arriving in arbitrary chunks into
// complete IRC lines, and frames outgoing lines for the wire. The
// session drives Feed directly from whatever chunks a net.Conn read
// returns, so it can decode and timestamp each line itself.
type lineCodec struct {
	buf []byte
}

// Feed appends chunk to the internal buffer and returns every complete
// line it now contains, in order. A line is terminated by "\r\n" or,
// failing that, a bare "\n"; trailing ASCII whitespace is trimmed from
// each line and empty lines are discarded. Any trailing partial line is
// retained for the next call.
func (lc *lineCodec) Feed(chunk []byte) [][]byte {
	lc.buf = append(lc.buf, chunk...)

	var lines [][]byte
	for {
		if i := bytes.IndexByte(lc.buf, '\n'); i >= 0 {
			line := trimLineEnd(lc.buf[:i])
			lc.buf = lc.buf[i+1:]
			if len(line) > 0 {
				// copied out so callers may retain lines after the
				// buffer is reused by a later Feed
				lines = append(lines, append([]byte(nil), line...))
			}
			continue
		}
		break
	}
	return lines
}

// trimLineEnd strips a trailing "\r" (left over from a "\r\n" terminator)
// and any other trailing ASCII whitespace.
func trimLineEnd(line []byte) []byte {
	for len(line) > 0 {
		c := line[len(line)-1]
		if c == '\r' || c == ' ' || c == '\t' {
			line = line[:len(line)-1]
			continue
		}
		break
	}
	return line
}

// encodeLine appends the line terminator used on the wire to an encoded
// message, matching RFC 1459's CRLF framing.
func encodeLine(b []byte) []byte {
	return append(b, '\r', '\n')
}
