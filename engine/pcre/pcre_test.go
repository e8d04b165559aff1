//go:build cgo

// Copyright (C) 2011 Florian Weimer <fw@deneb.enyo.de>

package pcre

import (
	"testing"

	"github.com/GRbit/go-pattern/engine"
)

func mustCompile(t testing.TB, e Engine, p string, flags engine.Flags) engine.Program {
	t.Helper()

	prog, err := e.Compile(p, flags)
	if err != nil {
		t.Fatal(p, err)
	}

	return prog
}

func TestCompile(t *testing.T) {
	check := func(p string, groups int) {
		prog, err := Engine{}.Compile(p, 0)
		if err != nil {
			t.Error(p, err)
			return
		}
		if g := prog.CaptureCount(); g != groups {
			t.Error(p, g)
		}
	}
	check("", 0)
	check("^", 0)
	check("^$", 0)
	check("()", 1)
	check("(())", 2)
	check("((?:))", 1)
}

func TestCompileFail(t *testing.T) {
	check := func(p, msg string, offset int) {
		_, err := Engine{}.Compile(p, 0)

		ce, ok := err.(*engine.CompileError)
		switch {
		case err == nil:
			t.Error(p)
		case !ok:
			t.Error(p, "not a CompileError:", err)
		case ce.Message != msg:
			t.Error(p, "Message:", ce.Message)
		case ce.Offset != offset:
			t.Error(p, "Offset:", ce.Offset)
		}
	}

	check("(", "missing )", 1)
	check(`\`, `\ at end of pattern`, 1)
	check(`abc\`, `\ at end of pattern`, 4)
	check("abc\000", "NUL byte in pattern", 3)
	check("a\000bc", "NUL byte in pattern", 1)
}

func checkExec(t *testing.T, pattern, subject string, want ...interface{}) {
	t.Helper()

	prog := mustCompile(t, Engine{}, pattern, 0)
	ov, err := prog.Exec(nil, subject, 0, 0)
	if err != nil {
		t.Error(pattern, subject, err)
		return
	}

	if len(want) == 0 {
		if ov != nil {
			t.Errorf("pattern='%s' subject='%s': %s", pattern, subject, "!Matches")
		}
		return
	}

	if ov == nil {
		t.Errorf("pattern='%s' subject='%s': %s", pattern, subject, "Matches")
		return
	}

	if len(ov) != 2*len(want) {
		t.Error(pattern, subject, "Groups", len(ov)/2-1)
		return
	}

	for i, arg := range want {
		start, end := ov[2*i], ov[2*i+1]
		if s, ok := arg.(string); ok {
			if start < 0 {
				t.Error(pattern, subject, "Present", i)
			} else if g := subject[start:end]; g != s {
				t.Error(pattern, subject, "Group", i, g, "!=", s)
			}
		} else if start >= 0 || end >= 0 {
			t.Error(pattern, subject, "!Present", i)
		}
	}
}

func TestExec(t *testing.T) {
	checkExec(t, `^$`, "", "")
	checkExec(t, `^abc$`, "abc", "abc")
	checkExec(t, `^(X)*ab(c)$`, "abc", "abc", nil, "c")
	checkExec(t, `^(X)*ab()c$`, "abc", "abc", nil, "")
	checkExec(t, `^.*$`, "abc", "abc")
	checkExec(t, `^.*$`, "a\000c", "a\000c")
	checkExec(t, `^(.*)$`, "a\000c", "a\000c", "a\000c")
	checkExec(t, `a(b)?(c)?`, "xa", "a", nil, nil)
	checkExec(t, `^abc$`, "abd")
}

func TestExecOffset(t *testing.T) {
	prog := mustCompile(t, Engine{}, `\d+`, 0)

	ov, err := prog.Exec(nil, "12 345", 2, 0)
	if err != nil || ov == nil || ov[0] != 3 || ov[1] != 6 {
		t.Error("offset search", ov, err)
	}

	ov, err = prog.Exec(nil, "12 345", 2, engine.Anchored)
	if err != nil || ov != nil {
		t.Error("anchored at a space", ov, err)
	}

	// lookbehind sees the text before the offset
	prog = mustCompile(t, Engine{}, `(?<=2)\s`, 0)
	ov, err = prog.Exec(nil, "12 345", 2, 0)
	if err != nil || ov == nil || ov[0] != 2 {
		t.Error("lookbehind", ov, err)
	}
}

func TestExecBadUTF8Offset(t *testing.T) {
	prog := mustCompile(t, Engine{}, `.`, 0)

	_, err := prog.Exec(nil, "交易", 1, 0)
	if !ErrExec.Is(err) {
		t.Error("expected ErrExec, got", err)
	}
}

func TestCaseless(t *testing.T) {
	ov, _ := mustCompile(t, Engine{}, "abc", engine.IgnoreCase).Exec(nil, "Abc", 0, 0)
	if ov == nil {
		t.Error("CASELESS")
	}
	ov, _ = mustCompile(t, Engine{}, "abc", 0).Exec(nil, "Abc", 0, 0)
	if ov != nil {
		t.Error("!CASELESS")
	}
}

func TestUnicode(t *testing.T) {
	ov, _ := mustCompile(t, Engine{}, `^\w+$`, 0).Exec(nil, "狐犬", 0, 0)
	if ov != nil {
		t.Error("\\w should be ASCII only without UCP")
	}
	ov, _ = mustCompile(t, Engine{}, `^\w+$`, engine.Unicode).Exec(nil, "狐犬", 0, 0)
	if ov == nil || ov[1] != len("狐犬") {
		t.Error("UCP", ov)
	}
}

func TestNames(t *testing.T) {
	prog := mustCompile(t, Engine{}, "(?<name2>a)(b)(c)(?<n1>d)", 0)
	names, err := prog.Names()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Fatal("Names count", len(names))
	}
	if names[0].Name != "n1" {
		t.Error("Names name 1", names[0].Name)
	}
	if names[1].Name != "name2" {
		t.Error("Names name 2", names[1].Name)
	}
	if names[0].Index != 4 {
		t.Error("Names index 1", names[0].Index)
	}
	if names[1].Index != 1 {
		t.Error("Names index 2", names[1].Index)
	}

	// Have no named capturing
	names, err = mustCompile(t, Engine{}, "(a)bc", 0).Names()
	if err != nil || len(names) != 0 {
		t.Error("Names count", len(names), err)
	}
}

func TestStudy(t *testing.T) {
	prog := mustCompile(t, Engine{}, `(Bel[ao]rus)|(Бел[ао]рус)|(БЕЛ[АО]РУС)|Білорусь`, engine.IgnoreCase)

	opt, err := prog.Optimize()
	if err != nil {
		t.Fatal("Study error", err)
	}
	if opt == nil {
		t.Fatal("study data should not be empty")
	}

	ov, err := prog.Exec(opt, "Беларусь: MTS", 0, 0)
	if err != nil || ov == nil {
		t.Error("The match should be matched", err)
	}
	ov, err = prog.Exec(opt, "Other value", 0, 0)
	if err != nil || ov != nil {
		t.Error("The match should not be matched", err)
	}

	if _, err := prog.Exec(struct{}{}, "x", 0, 0); !ErrForeignOptimized.Is(err) {
		t.Error("foreign optimized form", err)
	}
}

func TestJIT(t *testing.T) {
	if !JITSupported() {
		t.Skip("libpcre built without JIT")
	}

	prog := mustCompile(t, Engine{JIT: true}, `\dG|internet|gprs|[Kk]b|[Mm]b|Gb|lte`, 0)
	opt, err := prog.Optimize()
	if err != nil || opt == nil {
		t.Fatal("JIT study", err)
	}

	if ov, _ := prog.Exec(opt, `4GKb`, 0, 0); ov == nil {
		t.Error("The match should be matched")
	}
	if ov, _ := prog.Exec(opt, `Some value`, 0, 0); ov != nil {
		t.Error("The match should not be matched")
	}
}

func TestPartial(t *testing.T) {
	prog := mustCompile(t, Engine{}, `^abc`, 0)

	ov, err := prog.Exec(nil, "ab", 0, engine.Native(PartialSoft))
	if err != nil || ov == nil {
		t.Error("Failed to find a partial match", err)
	} else if ov[0] != 0 || ov[1] != 2 {
		t.Error("partial span", ov)
	}
}

func TestConfig(t *testing.T) {
	all := ConfigAll()
	if all["utf8"] != 1 {
		t.Error("libpcre without UTF-8", all)
	}
	if Version() == "" {
		t.Error("empty version")
	}
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{"pcre", "pcre-jit"} {
		if _, ok := engine.Lookup(name); !ok {
			t.Error("not registered", name)
		}
	}
}

func BenchmarkExecWithoutStudy(b *testing.B) {
	// Date check regexp
	prog := mustCompile(b, Engine{}, `^(?:(?:31(\/|-|\.)(?:0?[13578]|1[02]))\1|(?:(?:29|30)(\/|-|\.)(?:0?[1,3-9]|1[0-2])\2))(?:(?:1[6-9]|[2-9]\d)?\d{2})$|^(?:29(\/|-|\.)0?2\3(?:(?:(?:1[6-9]|[2-9]\d)?(?:0[48]|[2468][048]|[13579][26])|(?:(?:16|[2468][048]|[3579][26])00))))$|^(?:0?[1-9]|1\d|2[0-8])(\/|-|\.)(?:(?:0?[1-9])|(?:1[0-2]))\4(?:(?:1[6-9]|[2-9]\d)?\d{2})$`, 0)
	for i := 0; i < b.N; i++ {
		if ov, _ := prog.Exec(nil, `20-10-2023`, 0, 0); ov == nil {
			b.Error("The match should be matched")
		}
	}
}

func BenchmarkExecStudy(b *testing.B) {
	prog := mustCompile(b, Engine{}, `^(?:0?[1-9]|1\d|2[0-8])(\/|-|\.)(?:(?:0?[1-9])|(?:1[0-2]))\1(?:(?:1[6-9]|[2-9]\d)?\d{2})$`, 0)
	opt, err := prog.Optimize()
	if err != nil {
		b.Error("Study error", err)
	}
	for i := 0; i < b.N; i++ {
		if ov, _ := prog.Exec(opt, `20-10-2023`, 0, 0); ov == nil {
			b.Error("The match should be matched")
		}
	}
}
