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
	"github.com/GRbit/go-pattern/engine"
)

// Flags selects matching options; see engine.Flags.
type Flags = engine.Flags

// Compile-time flags.
const (
	IgnoreCase = engine.IgnoreCase
	Unicode    = engine.Unicode
	Multiline  = engine.Multiline
	DotAll     = engine.DotAll
	Extended   = engine.Extended
	Ungreedy   = engine.Ungreedy
)

// Exec-time flags.
const (
	Anchored        = engine.Anchored
	NotBOL          = engine.NotBOL
	NotEOL          = engine.NotEOL
	NotEmpty        = engine.NotEmpty
	NotEmptyAtStart = engine.NotEmptyAtStart
)

// Native carries engine specific exec options through Flags.
func Native(bits uint32) Flags {
	return engine.Native(bits)
}

// ParseFlags resolves flag names such as "IGNORECASE" or "I".
func ParseFlags(names []string) (Flags, error) {
	f, err := engine.ParseFlags(names)
	if err != nil {
		return 0, ErrValue.Wrap(err, "flags")
	}

	return f, nil
}

func validateFlags(flags Flags) error {
	if err := flags.Validate(); err != nil {
		return ErrValue.Wrap(err, "flags")
	}

	return nil
}
