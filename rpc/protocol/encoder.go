package protocol

import (
	"bytes"
	"io"
	"strconv"
	"strings"
)

// Kind is the wire shape of a reply
type Kind byte

const (
	KindSimple  Kind = '+'
	KindError   Kind = '-'
	KindInteger Kind = ':'
	KindBulk    Kind = '$'
	KindArray   Kind = '*'
)

const crlf = "\r\n"

// Reply is the outcome of one command as it is sent back to the client
type Reply struct {
	Kind  Kind
	Str   string   // text of simple strings, errors and bulk strings
	Int   int64    // value of integer replies
	Items []string // elements of array replies, encoded as bulk strings
	Nil   bool     // nil bulk string
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// OK is the status reply of all successful writes
var OK = SimpleString("OK")

func SimpleString(s string) Reply { return Reply{Kind: KindSimple, Str: s} }

func Error(msg string) Reply { return Reply{Kind: KindError, Str: msg} }

// ErrorFrom wraps err as an error reply
func ErrorFrom(err error) Reply { return Error(err.Error()) }

func Integer(n int64) Reply { return Reply{Kind: KindInteger, Int: n} }

func BulkString(s string) Reply { return Reply{Kind: KindBulk, Str: s} }

// NilBulk is the reply for absent values
func NilBulk() Reply { return Reply{Kind: KindBulk, Nil: true} }

// Array encodes items as an array of bulk strings. A nil slice is sent as an empty array.
func Array(items []string) Reply { return Reply{Kind: KindArray, Items: items} }

// IsError reports whether the reply is an error reply
func (r Reply) IsError() bool { return r.Kind == KindError }

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// Encode returns the wire form of r
func (r Reply) Encode() []byte {
	var buf bytes.Buffer
	r.appendTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the wire form of r to w
func (r Reply) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Encode())
	return int64(n), err
}

func (r Reply) appendTo(buf *bytes.Buffer) {
	switch r.Kind {
	case KindSimple, KindError:
		buf.WriteByte(byte(r.Kind))
		buf.WriteString(singleLine(r.Str))
		buf.WriteString(crlf)
	case KindInteger:
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(r.Int, 10))
		buf.WriteString(crlf)
	case KindBulk:
		if r.Nil {
			buf.WriteString("$-1" + crlf)
			return
		}
		writeBulk(buf, r.Str)
	case KindArray:
		buf.WriteByte('*')
		buf.WriteString(strconv.Itoa(len(r.Items)))
		buf.WriteString(crlf)
		for _, item := range r.Items {
			writeBulk(buf, item)
		}
	default:
		buf.WriteString("-unknown reply kind" + crlf)
	}
}

func writeBulk(buf *bytes.Buffer, s string) {
	buf.WriteByte('$')
	buf.WriteString(strconv.Itoa(len(s)))
	buf.WriteString(crlf)
	buf.WriteString(s)
	buf.WriteString(crlf)
}

// singleLine replaces line breaks, simple strings and errors must not contain them
var singleLine = strings.NewReplacer("\r", " ", "\n", " ").Replace

// EncodeCommand builds a request frame from the given arguments
func EncodeCommand(args ...string) []byte {
	var buf bytes.Buffer
	buf.WriteByte('*')
	buf.WriteString(strconv.Itoa(len(args)))
	buf.WriteString(crlf)
	for _, a := range args {
		writeBulk(&buf, a)
	}
	return buf.Bytes()
}
