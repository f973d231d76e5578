package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

const (
	// MaxLineSize bounds a single line of a request frame
	MaxLineSize = 1 << 20

	// MaxFrameArgs bounds the number of arguments a header may announce for the
	// frame reader to collect. It is larger than MaxArgs so that oversized requests
	// are read completely and rejected with a single reply.
	MaxFrameArgs = 1024
)

// ErrLineTooLong is returned by FrameReader when a line exceeds MaxLineSize.
// The offending frame has been consumed, the next call continues behind it.
var ErrLineTooLong = fmt.Errorf("line exceeds %d bytes", MaxLineSize)

// FrameReader cuts a byte stream into request frames for ParseRequest.
//
// A frame is read line by line: the header line first and, if it is a "*N"
// header with 1 <= N <= MaxFrameArgs, up to 2N further lines. A line starting
// with '*' where a length line is expected begins the next frame and ends the
// current one early. Anything else is returned as a single-line frame, so the
// parser rejects every malformed request exactly once and the stream stays in
// sync. Lines may end with "\n" or "\r\n"; the bytes are passed on unchanged.
//
// Thread-safety: FrameReader is not safe for concurrent use.
type FrameReader struct {
	r   *bufio.Reader
	buf bytes.Buffer
}

// NewFrameReader returns a FrameReader on top of r. If r already is a
// *bufio.Reader it is used directly.
func NewFrameReader(r io.Reader) *FrameReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &FrameReader{r: br}
}

// ReadFrame returns the next frame. The returned slice is only valid until
// the next call. io.EOF is returned if the stream ends between frames,
// io.ErrUnexpectedEOF if it ends inside a frame.
func (f *FrameReader) ReadFrame() ([]byte, error) {
	f.buf.Reset()

	head, err := f.readLine(false)
	if err != nil {
		return nil, err
	}

	n, ok := headerCount(head)
	if !ok {
		return f.buf.Bytes(), nil
	}

	// once a line is too long the rest of the frame is discarded
	var frameErr error
	for i := 0; i < 2*n; i++ {
		if i%2 == 0 && f.nextIsHeader() {
			break
		}
		_, err := f.readLine(frameErr != nil)
		switch {
		case err == nil:
		case err == ErrLineTooLong:
			frameErr = err
		case err == io.EOF:
			return nil, io.ErrUnexpectedEOF
		default:
			return nil, err
		}
	}

	if frameErr != nil {
		return nil, frameErr
	}
	return f.buf.Bytes(), nil
}

// nextIsHeader reports whether the next unread line starts with '*'
func (f *FrameReader) nextIsHeader() bool {
	b, err := f.r.Peek(1)
	return err == nil && b[0] == '*'
}

// readLine appends one line including its terminator to the frame buffer and
// returns the line without terminator. With discard set, or once the line
// exceeds MaxLineSize, the line is consumed without being buffered and
// ErrLineTooLong is returned.
func (f *FrameReader) readLine(discard bool) ([]byte, error) {
	start := f.buf.Len()
	size := 0
	for {
		chunk, err := f.r.ReadSlice('\n')
		size += len(chunk)
		if !discard && size > MaxLineSize {
			discard = true
			f.buf.Truncate(start)
		}
		if !discard {
			f.buf.Write(chunk)
		}

		switch err {
		case nil:
			if discard {
				return nil, ErrLineTooLong
			}
			line := bytes.TrimSuffix(f.buf.Bytes()[start:f.buf.Len()-1], []byte{'\r'})
			return line, nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if size == 0 {
				return nil, io.EOF
			}
			if discard {
				return nil, ErrLineTooLong
			}
			// last line without terminator
			return f.buf.Bytes()[start:], nil
		default:
			return nil, err
		}
	}
}

// headerCount returns N for a "*N" header line the reader collects a body for
func headerCount(line []byte) (int, bool) {
	if len(line) < 2 || line[0] != '*' {
		return 0, false
	}
	n, err := strconv.Atoi(string(line[1:]))
	if err != nil || n < 1 || n > MaxFrameArgs {
		return 0, false
	}
	return n, true
}
