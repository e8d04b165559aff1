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

package engine

import (
	"strconv"
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"
)

// Flags is the set of options understood by engines. The low 32 bits hold
// the recognized flags below, the high 32 bits carry engine-native exec
// options which are passed through without interpretation.
type Flags uint64

// Compile-time flags. They change the compiled program, so a pattern keeps
// one compiled form per distinct combination.
const (
	IgnoreCase Flags = 1 << iota // case-insensitive matching
	Unicode                      // Unicode properties for \w, \d, \b and POSIX classes
	Multiline                    // ^ and $ match at line boundaries
	DotAll                       // . matches newlines
	Extended                     // ignore whitespace and # comments in the pattern
	Ungreedy                     // invert greediness of quantifiers
)

// Exec-time flags.
const (
	Anchored        Flags = 1 << (iota + 16) // match only at the start offset
	NotBOL                                   // subject start is not the beginning of a line
	NotEOL                                   // subject end is not the end of a line
	NotEmpty                                 // an empty string is not a valid match
	NotEmptyAtStart                          // an empty string at the start offset is not a valid match
)

const (
	// CompileMask selects the flags baked into a compiled program.
	CompileMask = IgnoreCase | Unicode | Multiline | DotAll | Extended | Ungreedy
	// ExecMask selects the recognized flags applied per exec call.
	ExecMask = Anchored | NotBOL | NotEOL | NotEmpty | NotEmptyAtStart

	knownMask  = CompileMask | ExecMask
	nativeMask = Flags(0xffffffff) << 32
)

// ErrUnknownFlags is returned by Validate for bits outside the recognized set.
var ErrUnknownFlags = errors.NewKind("unknown flag bits %#x")

// Native wraps engine specific exec option bits so they can travel next to
// the recognized flags.
func Native(bits uint32) Flags {
	return Flags(bits) << 32
}

// Native returns the engine specific bits carried by f.
func (f Flags) Native() uint32 {
	return uint32(f >> 32)
}

// Compile returns the compile-time part of f.
func (f Flags) Compile() Flags {
	return f & CompileMask
}

// Exec returns the exec-time part of f, native bits included.
func (f Flags) Exec() Flags {
	return f & (ExecMask | nativeMask)
}

// Has reports whether every flag in g is set in f.
func (f Flags) Has(g Flags) bool {
	return f&g == g
}

// Validate fails when f has bits set in the recognized range that do not
// name a flag.
func (f Flags) Validate() error {
	if unknown := f &^ (knownMask | nativeMask); unknown != 0 {
		return ErrUnknownFlags.New(uint64(unknown))
	}

	return nil
}

var flagNames = []struct {
	flag  Flags
	names []string
}{
	{IgnoreCase, []string{"IGNORECASE", "I"}},
	{Unicode, []string{"UNICODE", "U"}},
	{Multiline, []string{"MULTILINE", "M"}},
	{DotAll, []string{"DOTALL", "S"}},
	{Extended, []string{"EXTENDED", "VERBOSE", "X"}},
	{Ungreedy, []string{"UNGREEDY"}},
	{Anchored, []string{"ANCHORED", "A"}},
	{NotBOL, []string{"NOTBOL"}},
	{NotEOL, []string{"NOTEOL"}},
	{NotEmpty, []string{"NOTEMPTY"}},
	{NotEmptyAtStart, []string{"NOTEMPTY_ATSTART"}},
}

// ErrUnknownFlagName is returned by ParseFlags for names it does not know.
var ErrUnknownFlagName = errors.NewKind("unknown flag name %q")

// ParseFlags resolves flag names, case-insensitively. Both long and short
// names are accepted: "IGNORECASE" and "I" are the same flag.
func ParseFlags(names []string) (Flags, error) {
	var f Flags

	for _, name := range names {
		flag, ok := lookupFlag(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			return 0, ErrUnknownFlagName.New(name)
		}
		f |= flag
	}

	return f, nil
}

func lookupFlag(name string) (Flags, bool) {
	for _, fn := range flagNames {
		for _, n := range fn.names {
			if n == name {
				return fn.flag, true
			}
		}
	}

	return 0, false
}

// String renders the recognized flags joined by '|', for example
// "IGNORECASE|UNICODE". Native bits are appended in hex.
func (f Flags) String() string {
	if f == 0 {
		return "0"
	}

	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.names[0])
		}
	}
	if unknown := f &^ (knownMask | nativeMask); unknown != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(unknown), 16))
	}
	if n := f.Native(); n != 0 {
		parts = append(parts, "NATIVE(0x"+strconv.FormatUint(uint64(n), 16)+")")
	}

	return strings.Join(parts, "|")
}
