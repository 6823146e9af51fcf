/*
   Copyright (c) 2023, btnmasher
   All rights reserved.

   Redistribution and use in source and binary forms, with or without modification, are permitted provided that
   the following conditions are met:

   1. Redistributions of source code must retain the above copyright notice, this list of conditions and the
      following disclaimer.

   2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and
      the following disclaimer in the documentation and/or other materials provided with the distribution.

   3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or
      promote products derived from this software without specific prior written permission.

   THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED
   WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A
   PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR
   ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED
   TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
   HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
   NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
   POSSIBILITY OF SUCH DAMAGE.
*/

package trovochat

import "strings"

// Decode takes a single CRLF-stripped frame (as produced by Framer.Next)
// and parses it into a RawMessage borrowing from frame. The caller decides
// whether to promote the result with IntoOwned before the frame buffer is
// reused.
func Decode(frame string) (RawMessage, error) {
	frame = strings.TrimRight(frame, "\r\n")
	if frame == "" {
		return RawMessage{}, &FrameError{Err: ErrIncompleteFrame}
	}
	return parseRaw(borrowedStr(frame))
}

// DecodeOwned is Decode followed by IntoOwned, for callers that need the
// message to outlive the buffer frame was sliced from.
func DecodeOwned(frame string) (RawMessage, error) {
	msg, err := Decode(frame)
	if err != nil {
		return RawMessage{}, err
	}
	return msg.IntoOwned(), nil
}
