package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  []string
		err   error
	}{
		{"set", "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n", []string{"SET", "foo", "bar"}, nil},
		{"single", "*1\r\n$4\r\nSAVE\r\n", []string{"SAVE"}, nil},
		{"lf only", "*2\n$3\nGET\n$3\nfoo\n", []string{"GET", "foo"}, nil},
		{"no final terminator", "*2\r\n$3\r\nGET\r\n$3\r\nfoo", []string{"GET", "foo"}, nil},
		{"length not checked", "*2\r\n$99\r\nGET\r\n$x\r\nfoo\r\n", []string{"GET", "foo"}, nil},
		{"empty argument", "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$0\r\n\r\n", []string{"SET", "k", ""}, nil},
		{"ten args", "*10\r\n" + strings.Repeat("$1\r\na\r\n", 10), repeat("a", 10), nil},

		{"empty frame", "", nil, ErrProtocol},
		{"no star", "SET foo bar\r\n", nil, ErrProtocol},
		{"bulk first", "$3\r\nfoo\r\n", nil, ErrProtocol},

		{"zero args", "*0\r\n", nil, ErrInvalidArgCount},
		{"negative args", "*-1\r\n", nil, ErrInvalidArgCount},
		{"eleven args", "*11\r\n" + strings.Repeat("$1\r\na\r\n", 11), nil, ErrInvalidArgCount},
		{"count not a number", "*x\r\n$1\r\na\r\n", nil, ErrInvalidArgCount},
		{"count missing", "*\r\n", nil, ErrInvalidArgCount},

		{"too few", "*3\r\n$3\r\nGET\r\n$3\r\nfoo\r\n", nil, ErrArgCountMismatch},
		{"too many", "*1\r\n$3\r\nGET\r\n$3\r\nfoo\r\n", nil, ErrArgCountMismatch},
		{"missing argument line", "*1\r\n$3\r\n", nil, ErrArgCountMismatch},
		{"length line without dollar", "*1\r\nGET\r\nfoo\r\n", nil, ErrArgCountMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest([]byte(tt.frame))
			if !errors.Is(err, tt.err) {
				t.Fatalf("ParseRequest(%q) error = %v, want %v", tt.frame, err, tt.err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRequest(%q) = %q, want %q", tt.frame, got, tt.want)
			}
		})
	}
}

func TestParseEncodedCommand(t *testing.T) {
	args := []string{"SET", "key with spaces", "", "$weird*"}
	got, err := ParseRequest(EncodeCommand(args...))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if !reflect.DeepEqual(got, args) {
		t.Errorf("got %q, want %q", got, args)
	}
}

func TestEncodeCommand(t *testing.T) {
	got := string(EncodeCommand("GET", "foo"))
	want := "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"
	if got != want {
		t.Errorf("EncodeCommand = %q, want %q", got, want)
	}
}

func TestReplyEncode(t *testing.T) {
	tests := []struct {
		reply Reply
		want  string
	}{
		{OK, "+OK\r\n"},
		{SimpleString("PONG"), "+PONG\r\n"},
		{Error("key not exists"), "-key not exists\r\n"},
		{Error("multi\r\nline"), "-multi  line\r\n"},
		{Integer(42), ":42\r\n"},
		{Integer(-7), ":-7\r\n"},
		{BulkString("bar"), "$3\r\nbar\r\n"},
		{BulkString(""), "$0\r\n\r\n"},
		{NilBulk(), "$-1\r\n"},
		{Array(nil), "*0\r\n"},
		{Array([]string{"foo", ""}), "*2\r\n$3\r\nfoo\r\n$0\r\n\r\n"},
	}

	for _, tt := range tests {
		if got := string(tt.reply.Encode()); got != tt.want {
			t.Errorf("Encode(%+v) = %q, want %q", tt.reply, got, tt.want)
		}
	}
}

func TestReplyWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := BulkString("bar").WriteTo(&buf)
	if err != nil || n != 9 || buf.String() != "$3\r\nbar\r\n" {
		t.Errorf("WriteTo = %d, %v, %q", n, err, buf.String())
	}
	if !ErrorFrom(ErrProtocol).IsError() || OK.IsError() {
		t.Errorf("IsError mismatch")
	}
}

func TestFrameReader(t *testing.T) {
	stream := strings.Join([]string{
		"*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n",
		"garbage\r\n",
		"*1\n$4\nSAVE\n",
		"*0\r\n",
		"*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$0\r\n\r\n",
	}, "")

	fr := NewFrameReader(strings.NewReader(stream))

	want := []string{
		"*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n",
		"garbage\r\n",
		"*1\n$4\nSAVE\n",
		"*0\r\n",
		"*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$0\r\n\r\n",
	}
	for i, w := range want {
		frame, err := fr.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if string(frame) != w {
			t.Errorf("frame %d = %q, want %q", i, frame, w)
		}
	}

	if _, err := fr.ReadFrame(); err != io.EOF {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestFrameReaderTruncated(t *testing.T) {
	fr := NewFrameReader(strings.NewReader("*2\r\n$3\r\nGET\r\n"))
	if _, err := fr.ReadFrame(); err != io.ErrUnexpectedEOF {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestFrameReaderLongLine(t *testing.T) {
	long := strings.Repeat("x", MaxLineSize+1)
	fr := NewFrameReader(strings.NewReader("*1\r\n$1\r\n" + long + "\r\n"))
	if _, err := fr.ReadFrame(); !errors.Is(err, ErrLineTooLong) {
		t.Errorf("expected ErrLineTooLong, got %v", err)
	}
}

func TestFrameReaderLongLineResyncs(t *testing.T) {
	long := strings.Repeat("x", MaxLineSize+1)
	next := string(EncodeCommand("GET", "foo"))
	fr := NewFrameReader(strings.NewReader("*2\r\n$1\r\n" + long + "\r\n$1\r\ny\r\n" + next))

	if _, err := fr.ReadFrame(); !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}
	frame, err := fr.ReadFrame()
	if err != nil || string(frame) != next {
		t.Errorf("frame after long line = %q, %v, want %q", frame, err, next)
	}
}

// Each malformed request must come out as one frame followed by the next request
func TestFrameReaderMalformed(t *testing.T) {
	next := string(EncodeCommand("GET", "foo"))
	tests := []struct {
		name  string
		frame string
		err   error
	}{
		{"too many arguments", string(EncodeCommand(repeat("a", MaxArgs+1)...)), ErrInvalidArgCount},
		{"short body", "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n", ErrArgCountMismatch},
		{"header only", "*2\r\n", ErrArgCountMismatch},
		{"huge count", fmt.Sprintf("*%d\r\n", MaxFrameArgs+1), ErrInvalidArgCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := NewFrameReader(strings.NewReader(tt.frame + next))

			frame, err := fr.ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame failed: %v", err)
			}
			if string(frame) != tt.frame {
				t.Errorf("frame = %q, want %q", frame, tt.frame)
			}
			if _, err := ParseRequest(frame); !errors.Is(err, tt.err) {
				t.Errorf("ParseRequest error = %v, want %v", err, tt.err)
			}

			frame, err = fr.ReadFrame()
			if err != nil || string(frame) != next {
				t.Errorf("next frame = %q, %v, want %q", frame, err, next)
			}
		})
	}
}

func TestFrameReaderParses(t *testing.T) {
	fr := NewFrameReader(bytes.NewReader(EncodeCommand("KEYS", "*")))
	frame, err := fr.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	args, err := ParseRequest(frame)
	if err != nil || !reflect.DeepEqual(args, []string{"KEYS", "*"}) {
		t.Errorf("ParseRequest = %q, %v", args, err)
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
