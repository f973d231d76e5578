package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ValentinKolb/mredis/lib/db/keyspace"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// File layout:
//
//	MREDIS0001                  header (10 bytes)
//	@<db>;                      database marker, decimal index
//	<n>:<key><m>:<value> ...    length-prefixed key/value pairs, decimal lengths
const (
	header        = "MREDIS0001"
	headerPrefix  = "MREDIS"
	dbMarker      = '@'
	dbTerminator  = ';'
	lenTerminator = ':'

	// bounds for decimal fields and field sizes
	maxDigits   = 19
	maxFieldLen = 1 << 30
)

var (
	ErrBadHeader = errors.New("snapshot: bad header")
	ErrCorrupt   = errors.New("snapshot: corrupt data")
)

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// Encode writes every non-empty database of ks to w.
// Databases are written in ascending order, entries in bucket and chain order.
// Expiry markers are not part of the snapshot.
func Encode(w io.Writer, ks *keyspace.KeySpace) error {
	bw := bufio.NewWriterSize(w, 64*1024)

	if _, err := bw.WriteString(header); err != nil {
		return err
	}

	for i := 0; i < ks.Len(); i++ {
		d, err := ks.DB(i)
		if err != nil {
			return err
		}
		if d.Primary.Len() == 0 {
			continue
		}

		// database marker
		if err := bw.WriteByte(dbMarker); err != nil {
			return err
		}
		if _, err := bw.WriteString(strconv.Itoa(i)); err != nil {
			return err
		}
		if err := bw.WriteByte(dbTerminator); err != nil {
			return err
		}

		var werr error
		d.Primary.Range(func(key, value string) bool {
			if werr = writeField(bw, key); werr != nil {
				return false
			}
			werr = writeField(bw, value)
			return werr == nil
		})
		if werr != nil {
			return werr
		}
	}

	return bw.Flush()
}

// writeField writes a length-prefixed string
func writeField(bw *bufio.Writer, s string) error {
	if _, err := bw.WriteString(strconv.Itoa(len(s))); err != nil {
		return err
	}
	if err := bw.WriteByte(lenTerminator); err != nil {
		return err
	}
	_, err := bw.WriteString(s)
	return err
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// Decode reads a snapshot from r and puts every pair into the primary table of its
// database in ks. Pairs before the first marker belong to database 0.
// The selected database of ks is not changed.
func Decode(r io.Reader, ks *keyspace.KeySpace) error {
	br := bufio.NewReaderSize(r, 64*1024)

	head := make([]byte, len(header))
	if _, err := io.ReadFull(br, head); err != nil {
		return fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if string(head[:len(headerPrefix)]) != headerPrefix {
		return ErrBadHeader
	}

	current, err := ks.DB(0)
	if err != nil {
		return err
	}

	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case c == dbMarker:
			idx, err := readNumber(br, dbTerminator)
			if err != nil {
				return err
			}
			if current, err = ks.DB(idx); err != nil {
				return fmt.Errorf("%w: %v", ErrCorrupt, err)
			}

		case c >= '0' && c <= '9':
			if err := br.UnreadByte(); err != nil {
				return err
			}
			key, err := readField(br)
			if err != nil {
				return err
			}
			value, err := readField(br)
			if err != nil {
				return err
			}
			current.Primary.Put(key, value)

		default:
			return fmt.Errorf("%w: unexpected byte %q", ErrCorrupt, c)
		}
	}
}

// readNumber reads decimal digits up to and including the terminator
func readNumber(br *bufio.Reader, terminator byte) (int, error) {
	digits := make([]byte, 0, 8)
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return 0, fmt.Errorf("%w: truncated number", ErrCorrupt)
		}
		if err != nil {
			return 0, err
		}
		if c == terminator {
			break
		}
		if c < '0' || c > '9' || len(digits) == maxDigits {
			return 0, fmt.Errorf("%w: invalid number", ErrCorrupt)
		}
		digits = append(digits, c)
	}
	if len(digits) == 0 {
		return 0, fmt.Errorf("%w: empty number", ErrCorrupt)
	}
	return strconv.Atoi(string(digits))
}

// readField reads a length-prefixed string
func readField(br *bufio.Reader) (string, error) {
	n, err := readNumber(br, lenTerminator)
	if err != nil {
		return "", err
	}
	if n > maxFieldLen {
		return "", fmt.Errorf("%w: field of %d bytes", ErrCorrupt, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return "", fmt.Errorf("%w: truncated field", ErrCorrupt)
		}
		return "", err
	}
	return string(buf), nil
}
