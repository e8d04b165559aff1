// Copyright (c) 2011 Florian Weimer. All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are
// met:
//
// * Redistributions of source code must retain the above copyright
//   notice, this list of conditions and the following disclaimer.
//
// * Redistributions in binary form must reproduce the above copyright
//   notice, this list of conditions and the following disclaimer in the
//   documentation and/or other materials provided with the distribution.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
// "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
// LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
// A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
// OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
// LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
// DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
// THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
// (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package pattern

import (
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/GRbit/go-pattern/engine"
)

// Error kinds. Every error returned by this package is of one of these
// kinds; use Kind.Is to tell them apart. No match is never an error.
var (
	// ErrValue is invalid input to an operation: an empty pattern, unknown
	// flags, an offset out of range, flags the engine cannot honour.
	ErrValue = errors.NewKind("value error: %s")

	// ErrSyntax is a pattern the engine refused to compile. The cause is
	// the *engine.CompileError; SyntaxOffset extracts its offset.
	ErrSyntax = errors.NewKind("syntax error in pattern %q")

	// ErrRuntime is an engine failure that is not a syntax problem, or an
	// inconsistency between a compiled pattern and a match.
	ErrRuntime = errors.NewKind("runtime error: %s")

	// ErrReference is a violated internal contract, such as an engine
	// returning offsets that cannot belong to the subject. It points at a
	// bug, not at bad input.
	ErrReference = errors.NewKind("reference error: %s")
)

// SyntaxOffset returns the byte offset carried by an ErrSyntax error.
// The offset is -1 when the engine did not report one.
func SyntaxOffset(err error) (int, bool) {
	ce, ok := compileError(err)
	if !ok {
		return 0, false
	}

	return ce.Offset, true
}

// SyntaxMessage returns the engine diagnostic carried by an ErrSyntax error.
func SyntaxMessage(err error) (string, bool) {
	ce, ok := compileError(err)
	if !ok {
		return "", false
	}

	return ce.Message, true
}

func compileError(err error) (*engine.CompileError, bool) {
	if !ErrSyntax.Is(err) {
		return nil, false
	}

	ce, ok := err.(*errors.Error).Cause().(*engine.CompileError)

	return ce, ok
}

// engineError classifies an error coming back from an engine call.
func engineError(err error, op string) error {
	switch {
	case engine.ErrUnsupportedFlags.Is(err):
		return ErrValue.Wrap(err, op)
	default:
		return ErrRuntime.Wrap(err, op)
	}
}
