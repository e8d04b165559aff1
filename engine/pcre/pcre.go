//go:build cgo

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

// Package pcre is the libpcre backend of the engine contract.
//
// Compiled programs and study data live in C memory and are released by
// finalizers once no Program or Optimized value references them. Subjects
// are passed to pcre_exec without copying; pcre_exec never writes to them.
//
// Patterns are always compiled with PCRE_UTF8; engine.Unicode adds
// PCRE_UCP so that \w, \d and friends use Unicode properties. Registering
// the package makes two engines available: "pcre", and "pcre-jit" which
// studies with PCRE_STUDY_JIT_COMPILE when libpcre was built with JIT.
//
// For details on the regular expression language see the PCRE
// documentation: http://www.pcre.org/pcre.txt
package pcre

/*
#cgo pkg-config: libpcre
#include <pcre.h>
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"runtime"
	"strings"
	"sync"
	"unsafe"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/GRbit/go-pattern/engine"
)

var (
	// ErrNoUTF8 is returned when libpcre was built without UTF-8 support.
	ErrNoUTF8 = errors.NewKind("libpcre %s was built without UTF-8 support")
	// ErrStudy wraps the message of a failed pcre_study.
	ErrStudy = errors.NewKind("pcre_study: %s")
	// ErrExec wraps a pcre_exec failure other than "no match".
	ErrExec = errors.NewKind("pcre_exec: %s (%d)")
	// ErrInfo wraps a failed pcre_fullinfo request.
	ErrInfo = errors.NewKind("pcre_fullinfo: %s (%d)")
	// ErrForeignOptimized is returned when Exec gets study data it did not build.
	ErrForeignOptimized = errors.NewKind("optimized form of type %T does not belong to pcre")
)

// Native exec options, for use with engine.Native.
const (
	PartialSoft = C.PCRE_PARTIAL_SOFT
	PartialHard = C.PCRE_PARTIAL_HARD
	NoUTF8Check = C.PCRE_NO_UTF8_CHECK
)

func init() {
	engine.Register(Engine{})
	engine.Register(Engine{JIT: true})
}

// Engine compiles patterns with pcre_compile.
type Engine struct {
	// JIT requests PCRE_STUDY_JIT_COMPILE in Optimize.
	JIT bool
}

// Name implements engine.Engine.
func (e Engine) Name() string {
	if e.JIT {
		return "pcre-jit"
	}

	return "pcre"
}

// Compile implements engine.Engine.
func (e Engine) Compile(expr string, flags engine.Flags) (engine.Program, error) {
	if i := strings.IndexByte(expr, 0); i >= 0 {
		return nil, &engine.CompileError{Expr: expr, Message: "NUL byte in pattern", Offset: i}
	}

	if !utf8Supported() {
		return nil, ErrNoUTF8.New(Version())
	}

	patternC := C.CString(expr)
	defer C.free(unsafe.Pointer(patternC))

	var errPtr *C.char
	var errOffset C.int
	ptr := C.pcre_compile(patternC, compileOptions(flags), &errPtr, &errOffset, nil)
	if ptr == nil {
		return nil, &engine.CompileError{
			Expr:    expr,
			Message: C.GoString(errPtr),
			Offset:  int(errOffset),
		}
	}

	p := &program{code: ptr, jit: e.JIT}
	runtime.SetFinalizer(p, (*program).free)

	groups, err := p.fullinfoInt(C.PCRE_INFO_CAPTURECOUNT)
	if err != nil {
		return nil, err
	}
	p.groups = groups

	return p, nil
}

func compileOptions(flags engine.Flags) C.int {
	opts := C.int(C.PCRE_UTF8)

	if flags.Has(engine.IgnoreCase) {
		opts |= C.PCRE_CASELESS
	}
	if flags.Has(engine.Unicode) {
		opts |= C.PCRE_UCP
	}
	if flags.Has(engine.Multiline) {
		opts |= C.PCRE_MULTILINE
	}
	if flags.Has(engine.DotAll) {
		opts |= C.PCRE_DOTALL
	}
	if flags.Has(engine.Extended) {
		opts |= C.PCRE_EXTENDED
	}
	if flags.Has(engine.Ungreedy) {
		opts |= C.PCRE_UNGREEDY
	}

	return opts
}

func execOptions(flags engine.Flags) C.int {
	opts := C.int(flags.Native())

	if flags.Has(engine.Anchored) {
		opts |= C.PCRE_ANCHORED
	}
	if flags.Has(engine.NotBOL) {
		opts |= C.PCRE_NOTBOL
	}
	if flags.Has(engine.NotEOL) {
		opts |= C.PCRE_NOTEOL
	}
	if flags.Has(engine.NotEmpty) {
		opts |= C.PCRE_NOTEMPTY
	}
	if flags.Has(engine.NotEmptyAtStart) {
		opts |= C.PCRE_NOTEMPTY_ATSTART
	}

	return opts
}

// program owns a pcre_compile result.
type program struct {
	code   *C.pcre
	groups int
	jit    bool
}

func (p *program) free() {
	C.free(unsafe.Pointer(p.code))
	p.code = nil
}

func (p *program) fullinfoInt(what C.int) (int, error) {
	var v C.int
	if rc := C.pcre_fullinfo(p.code, nil, what, unsafe.Pointer(&v)); rc < 0 {
		return 0, ErrInfo.New("integer request", int(rc))
	}
	runtime.KeepAlive(p)

	return int(v), nil
}

// CaptureCount implements engine.Program.
func (p *program) CaptureCount() int {
	return p.groups
}

// Size is the number of bytes in the compiled pattern.
func (p *program) Size() int {
	var size C.size_t
	C.pcre_fullinfo(p.code, nil, C.PCRE_INFO_SIZE, unsafe.Pointer(&size))
	runtime.KeepAlive(p)

	return int(size)
}

// Names implements engine.Program by walking PCRE_INFO_NAMETABLE.
// Each entry is nameEntrySize bytes: the group index as two bytes, most
// significant first, followed by the NUL terminated name.
func (p *program) Names() ([]engine.CaptureName, error) {
	defer runtime.KeepAlive(p)

	nameCount, err := p.fullinfoInt(C.PCRE_INFO_NAMECOUNT)
	if err != nil || nameCount == 0 {
		return nil, err
	}

	nameEntrySize, err := p.fullinfoInt(C.PCRE_INFO_NAMEENTRYSIZE)
	if err != nil {
		return nil, err
	}
	if nameEntrySize <= 2 {
		return nil, ErrInfo.New("illegal name entry size", nameEntrySize)
	}

	var data unsafe.Pointer
	if rc := C.pcre_fullinfo(p.code, nil, C.PCRE_INFO_NAMETABLE, unsafe.Pointer(&data)); rc < 0 || data == nil {
		return nil, ErrInfo.New("no name table", int(rc))
	}

	table := C.GoBytes(data, C.int(nameCount*nameEntrySize))
	result := make([]engine.CaptureName, nameCount)

	for i := range result {
		entry := table[i*nameEntrySize : (i+1)*nameEntrySize]
		name := entry[2:]
		if end := strings.IndexByte(string(name), 0); end >= 0 {
			name = name[:end]
		}

		result[i] = engine.CaptureName{
			Name:  string(name),
			Index: int(entry[0])<<8 | int(entry[1]),
		}
	}

	return result, nil
}

// study owns a pcre_study result.
type study struct {
	extra *C.pcre_extra
}

func (s *study) free() {
	C.pcre_free_study(s.extra)
	s.extra = nil
}

// Optimize implements engine.Program with pcre_study. pcre_study returns
// NULL without an error message when it could not learn anything useful,
// which is reported as a nil Optimized.
func (p *program) Optimize() (engine.Optimized, error) {
	defer runtime.KeepAlive(p)

	var opts C.int
	if p.jit && JITSupported() {
		opts |= C.PCRE_STUDY_JIT_COMPILE
	}

	var errPtr *C.char
	extra := C.pcre_study(p.code, opts, &errPtr)
	if errPtr != nil {
		return nil, ErrStudy.New(C.GoString(errPtr))
	}
	if extra == nil {
		return nil, nil
	}

	s := &study{extra: extra}
	runtime.SetFinalizer(s, (*study).free)

	return s, nil
}

// addressable backs the subject pointer of empty subjects.
var addressable = [1]byte{0}

// Exec implements engine.Program with pcre_exec. The ovector holds
// 3*(groups+1) ints; pcre_exec uses the last third as workspace.
func (p *program) Exec(opt engine.Optimized, subject string, offset int, flags engine.Flags) ([]int, error) {
	var extra *C.pcre_extra
	if opt != nil {
		s, ok := opt.(*study)
		if !ok {
			return nil, ErrForeignOptimized.New(opt)
		}
		extra = s.extra
	}

	subjectP := (*C.char)(unsafe.Pointer(&addressable[0]))
	if len(subject) > 0 {
		subjectP = (*C.char)(unsafe.Pointer(unsafe.StringData(subject)))
	}

	oVector := make([]C.int, 3*(p.groups+1))
	rc := C.pcre_exec(p.code, extra,
		subjectP, C.int(len(subject)), C.int(offset), execOptions(flags),
		&oVector[0], C.int(len(oVector)))
	runtime.KeepAlive(p)
	runtime.KeepAlive(opt)

	matched, err := checkMatch(int(rc))
	if err != nil || !matched {
		return nil, err
	}

	// rc is the number of pairs set, except for a partial match which sets
	// only the whole match, and 0 which means the ovector was too small.
	set := int(rc)
	switch {
	case rc == C.PCRE_ERROR_PARTIAL:
		set = 1
	case rc == 0:
		set = p.groups + 1
	}

	out := make([]int, 2*(p.groups+1))
	for i := range out {
		out[i] = -1
	}
	for i := 0; i < set && i <= p.groups; i++ {
		out[2*i] = int(oVector[2*i])
		out[2*i+1] = int(oVector[2*i+1])
	}

	return out, nil
}

func checkMatch(rc int) (bool, error) {
	switch {
	case rc >= 0 || rc == C.PCRE_ERROR_PARTIAL:
		return true, nil
	case rc == C.PCRE_ERROR_NOMATCH:
		return false, nil
	case rc == C.PCRE_ERROR_NULL:
		return false, ErrExec.New("one or more variables passed to pcre_exec == NULL", rc)
	case rc == C.PCRE_ERROR_BADOPTION:
		return false, ErrExec.New("an unrecognized bit was set in the options argument", rc)
	case rc == C.PCRE_ERROR_BADMAGIC:
		return false, ErrExec.New("invalid compiled pattern", rc)
	case rc == C.PCRE_ERROR_UNKNOWN_OPCODE:
		return false, ErrExec.New("an unknown item was encountered in the compiled pattern", rc)
	case rc == C.PCRE_ERROR_NOMEMORY:
		return false, ErrExec.New("out of memory", rc)
	case rc == C.PCRE_ERROR_MATCHLIMIT:
		return false, ErrExec.New("backtracking (match) limit was reached", rc)
	case rc == C.PCRE_ERROR_BADUTF8:
		return false, ErrExec.New("subject contains an invalid UTF-8 byte sequence", rc)
	case rc == C.PCRE_ERROR_BADUTF8_OFFSET:
		return false, ErrExec.New("start offset is not at the start of a UTF-8 character", rc)
	case rc == C.PCRE_ERROR_RECURSIONLIMIT:
		return false, ErrExec.New("recursion limit", rc)
	case rc == C.PCRE_ERROR_JIT_STACKLIMIT:
		return false, ErrExec.New("JIT stack limit", rc)
	case rc == C.PCRE_ERROR_BADOFFSET:
		return false, ErrExec.New("start offset is out of range", rc)
	case rc == C.PCRE_ERROR_INTERNAL, rc == C.PCRE_ERROR_BADCOUNT:
		return false, ErrExec.New("internal error", rc)
	}

	return false, ErrExec.New("unexpected return code", rc)
}

// Config returns the integer value of a pcre_config request.
// http://www.pcre.org/original/doc/html/pcre_config.html
func Config(what int) int {
	var i C.int
	C.pcre_config(C.int(what), unsafe.Pointer(&i))

	return int(i)
}

// ConfigAll returns the integer pcre_config values that matter to this
// package, keyed by their lower-case name.
func ConfigAll() map[string]int {
	return map[string]int{
		"jit":                   Config(C.PCRE_CONFIG_JIT),
		"link_size":             Config(C.PCRE_CONFIG_LINK_SIZE),
		"match_limit":           Config(C.PCRE_CONFIG_MATCH_LIMIT),
		"match_limit_recursion": Config(C.PCRE_CONFIG_MATCH_LIMIT_RECURSION),
		"newline":               Config(C.PCRE_CONFIG_NEWLINE),
		"bsr":                   Config(C.PCRE_CONFIG_BSR),
		"utf8":                  Config(C.PCRE_CONFIG_UTF8),
		"unicode_properties":    Config(C.PCRE_CONFIG_UNICODE_PROPERTIES),
	}
}

// Version is the libpcre version string.
func Version() string {
	return C.GoString(C.pcre_version())
}

var (
	utf8Once sync.Once
	utf8OK   bool
	jitOnce  sync.Once
	jitOK    bool
)

func utf8Supported() bool {
	utf8Once.Do(func() { utf8OK = Config(C.PCRE_CONFIG_UTF8) == 1 })

	return utf8OK
}

// JITSupported reports whether libpcre was built with JIT support.
func JITSupported() bool {
	jitOnce.Do(func() { jitOK = Config(C.PCRE_CONFIG_JIT) == 1 })

	return jitOK
}
