/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"bufio"
	"io"

	"github.com/btnmasher/trovochat/internal/linepool"
)

// lineBuf is a reusable scratch buffer for one in-progress frame. Pooling
// these means the steady-state read path allocates nothing per line.
type lineBuf struct {
	b []byte
}

func (l *lineBuf) Scrub() {
	l.b = l.b[:0]
}

// linePool backs every Framer's scratch buffer. Warmup pre-fills it
// before the first connection so early frames don't pay an allocation.
var linePool = linepool.New[*lineBuf](DefaultLinePoolSize, func() *lineBuf {
	return &lineBuf{b: make([]byte, 0, 256)}
})

func linePoolWarmup(num int) {
	linePool.Warmup(num)
}

// Framer splits a byte stream into CRLF-terminated frames. Bare LF is not
// accepted as a terminator; a frame split on bare LF is simply folded into
// the next one, same as any other non-terminating byte. The runner owns
// one Framer per connection attempt and releases its scratch buffer back
// to the pool via Close when the attempt ends.
type Framer struct {
	r     *bufio.Reader
	line  *lineBuf
	max   int
}

// NewFramer wraps r, ceiling the permitted frame length at max bytes (tags,
// source, command, and args included, terminator excluded). A max of 0 uses
// MaxFrameLength.
func NewFramer(r io.Reader, max int) *Framer {
	if max <= 0 {
		max = MaxFrameLength
	}
	return &Framer{r: bufio.NewReaderSize(r, max+2), line: linePool.Get(), max: max}
}

// Close returns the Framer's scratch buffer to the pool. The Framer must
// not be used afterward.
func (f *Framer) Close() {
	linePool.Put(f.line)
	f.line = nil
}

// Next reads and returns the next complete frame, with its CRLF terminator
// stripped. Empty frames (two terminators back to back) are skipped
// transparently. Returns ErrEOF on a clean end of stream between frames,
// ErrIncompleteFrame on EOF mid-frame, and ErrFrameTooLong if a frame
// exceeds the configured ceiling (the stream is resynchronized to the next
// terminator so decoding can continue).
func (f *Framer) Next() (string, error) {
	for {
		line, err := f.readLine()
		if err != nil {
			return "", err
		}
		if len(line) == 0 {
			continue
		}
		return line, nil
	}
}

func (f *Framer) readLine() (string, error) {
	f.line.b = f.line.b[:0]

	for {
		chunk, err := f.r.ReadSlice('\n')
		f.line.b = append(f.line.b, chunk...)

		switch {
		case err == nil:
			if bareLF(f.line.b) {
				continue
			}
			return f.terminate()
		case err == bufio.ErrBufferFull:
			if len(f.line.b) > f.max {
				if serr := f.resync(); serr != nil {
					return "", serr
				}
				return "", &FrameError{Err: ErrFrameTooLong}
			}
			continue
		case err == io.EOF:
			if len(f.line.b) == 0 {
				return "", ErrEOF
			}
			return "", &FrameError{Err: ErrIncompleteFrame, Data: string(f.line.b)}
		default:
			return "", &FrameError{Err: ErrIncompleteFrame, Data: err.Error()}
		}
	}
}

// bareLF reports whether b ends in a '\n' not preceded by '\r' — a bare LF,
// which readLine folds into the same frame instead of treating as a
// terminator.
func bareLF(b []byte) bool {
	n := len(b)
	return n >= 1 && b[n-1] == '\n' && (n < 2 || b[n-2] != '\r')
}

// terminate strips the CRLF terminator from the scratch buffer, which
// readLine guarantees ends in "\r\n" by the time terminate is called.
func (f *Framer) terminate() (string, error) {
	n := len(f.line.b)
	if n-2 > f.max {
		return "", &FrameError{Err: ErrFrameTooLong}
	}
	return string(f.line.b[:n-2]), nil
}

// resync discards bytes until the next '\n' so a too-long frame doesn't
// desynchronize subsequent framing.
func (f *Framer) resync() error {
	for {
		_, err := f.r.ReadSlice('\n')
		if err == nil {
			return nil
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return &FrameError{Err: ErrIncompleteFrame}
	}
}
