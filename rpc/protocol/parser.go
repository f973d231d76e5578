package protocol

import (
	"bytes"
	"errors"
	"strconv"
)

const (
	// MaxArgs is the largest argument count a request may declare
	MaxArgs = 10
)

// Parse errors. Their messages are sent to the client verbatim.
var (
	ErrProtocol         = errors.New("protocol error")
	ErrInvalidArgCount  = errors.New("invalid number of arguments")
	ErrArgCountMismatch = errors.New("protocol error: argument count mismatch")
)

// ParseRequest splits one request frame into its argument tokens.
//
// A frame has the form
//
//	*<N>\r\n
//	$<anything>\r\n
//	<argument>\r\n
//	... (N pairs)
//
// The length lines only have to start with '$', the announced length is not
// checked. Arguments are taken verbatim up to the line terminator and may be empty.
func ParseRequest(frame []byte) ([]string, error) {
	if len(frame) == 0 || frame[0] != '*' {
		return nil, ErrProtocol
	}

	lines := splitLines(frame)

	n, err := strconv.Atoi(string(lines[0][1:]))
	if err != nil || n < 1 || n > MaxArgs {
		return nil, ErrInvalidArgCount
	}

	args := make([]string, 0, n)
	rest := lines[1:]
	for len(rest) > 0 && len(args) < n {
		if len(rest[0]) == 0 || rest[0][0] != '$' {
			return nil, ErrArgCountMismatch
		}
		if len(rest) < 2 {
			// length line without argument line
			break
		}
		args = append(args, string(rest[1]))
		rest = rest[2:]
	}

	if len(args) != n || !onlyEmpty(rest) {
		return nil, ErrArgCountMismatch
	}
	return args, nil
}

// splitLines splits on '\n' and strips one trailing '\r' per line. A final
// terminator does not produce an extra line.
func splitLines(frame []byte) [][]byte {
	lines := bytes.Split(frame, []byte{'\n'})
	if len(lines) > 1 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = bytes.TrimSuffix(l, []byte{'\r'})
	}
	return lines
}

func onlyEmpty(lines [][]byte) bool {
	for _, l := range lines {
		if len(l) != 0 {
			return false
		}
	}
	return true
}
