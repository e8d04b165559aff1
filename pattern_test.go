// Copyright (C) 2011 Florian Weimer <fw@deneb.enyo.de>


package pattern

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/GRbit/go-pattern/engine"
)

func forEachEngine(t *testing.T, fn func(t *testing.T, e engine.Engine)) {
	for _, name := range engine.Engines() {
		e, ok := engine.Lookup(name)
		require.True(t, ok)
		t.Run(name, func(t *testing.T) {
			fn(t, e)
		})
	}
}

func spansOf(ms []*Match) [][]Span {
	out := make([][]Span, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Spans())
	}

	return out
}

func TestSearch(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		p := New(`(\d+)`, WithEngine(e))

		m, err := p.Search("123", 0)
		require.NoError(t, err)
		require.NotNil(t, m)
		require.Equal(t, []Span{{0, 3}, {0, 3}}, m.Spans())
		require.Equal(t, "123", m.String())

		m, err = p.Search("abc", 0)
		require.NoError(t, err)
		require.Nil(t, m)
	})
}

func TestMatchAnchored(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		p := New(`\d+`, WithEngine(e))

		m, err := p.Match("ab12", 0)
		require.NoError(t, err)
		require.Nil(t, m)

		m, err = p.Match("12ab", 0)
		require.NoError(t, err)
		require.Equal(t, Span{0, 2}, m.Span(0))
	})
}

func TestMatchAt(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		p := New(`\bb`, WithEngine(e))

		// The 'a' before offset 1 still counts for \b.
		m, err := p.MatchAt("ab b", 1, 0)
		require.NoError(t, err)
		require.Equal(t, Span{3, 4}, m.Span(0))

		m, err = p.MatchAt("ab b", 4, 0)
		require.NoError(t, err)
		require.Nil(t, m)

		_, err = p.MatchAt("ab b", 5, 0)
		require.True(t, ErrValue.Is(err), "%v", err)
		_, err = p.MatchAt("ab b", -1, 0)
		require.True(t, ErrValue.Is(err), "%v", err)
	})
}

func TestMatchGroups(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		p := New(`(a)|(b)`, WithEngine(e))

		m, err := p.Search("xb", 0)
		require.NoError(t, err)
		require.Equal(t, 3, m.Len())
		require.Equal(t, Unmatched, m.Span(1))
		require.Equal(t, Span{1, 2}, m.Span(2))
		require.Equal(t, Unmatched, m.Span(3))
		require.Equal(t, 1, m.Start())
		require.Equal(t, 2, m.End())

		_, ok := m.Group(1)
		require.False(t, ok)
		text, ok := m.Group(2)
		require.True(t, ok)
		require.Equal(t, "b", text)
		require.Equal(t, []string{"-", "b"}, m.Groups("-"))
		require.Equal(t, "xb", m.Subject())
	})
}

func TestFindAll(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		p := New(`(\d+) (\d+)`, WithEngine(e))

		ms, err := p.FindAll("1 2 33 44 5", 0)
		require.NoError(t, err)

		want := [][]Span{
			{{0, 3}, {0, 1}, {2, 3}},
			{{4, 9}, {4, 6}, {7, 9}},
		}
		if diff := cmp.Diff(want, spansOf(ms)); diff != "" {
			t.Errorf("FindAll mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFindAllEmptyMatches(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		ms, err := New(`x*`, WithEngine(e)).FindAll("héllo", 0)
		require.NoError(t, err)

		var starts []int
		for _, m := range ms {
			require.Equal(t, m.Start(), m.End())
			starts = append(starts, m.Start())
		}
		// é is two bytes; no search starts inside it.
		require.Equal(t, []int{0, 1, 3, 4, 5}, starts)

		ms, err = New(`\W*`, WithEngine(e)).FindAll("a b", 0)
		require.NoError(t, err)
		require.Equal(t, [][]Span{{{0, 0}}, {{1, 2}}, {{2, 2}}}, spansOf(ms))

		ms, err = New(`x*`, WithEngine(e)).FindAll("", 0)
		require.NoError(t, err)
		require.Empty(t, ms)
	})
}

func TestFindAllProgress(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		for _, expr := range []string{`\W*`, `a*`, `(?=b)`, `\b`, `.*?`} {
			ms, err := New(expr, WithEngine(e)).FindAll("aa bb, cc", 0)
			require.NoError(t, err, expr)

			prev := -1
			for _, m := range ms {
				require.Greater(t, m.Start(), prev, expr)
				prev = m.Start()
			}
			require.LessOrEqual(t, len(ms), len("aa bb, cc")+1, expr)
		}
	})
}

func TestAllStops(t *testing.T) {
	p := New(`\d`)

	var got []string
	for m, err := range p.All("1a2b3c4", 0) {
		require.NoError(t, err)
		got = append(got, m.String())
		if len(got) == 2 {
			break
		}
	}
	require.Equal(t, []string{"1", "2"}, got)
}

func TestByName(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		p := New(`(?<days>\d+) days(?: and (?<hours>\d+) hours)?`, WithEngine(e))

		got, err := p.SearchByName("in 5 days", 0)
		require.NoError(t, err)
		require.Equal(t, map[string]string{"$_": "5 days", "days": "5"}, got)

		got, err = p.SearchByName("in 5 days and 3 hours", 0)
		require.NoError(t, err)
		require.Equal(t, map[string]string{
			"$_":    "5 days and 3 hours",
			"days":  "5",
			"hours": "3",
		}, got)

		got, err = p.SearchByName("never", 0)
		require.NoError(t, err)
		require.Empty(t, got)

		c, err := p.Compile(0)
		require.NoError(t, err)
		require.Equal(t, []string{"days", "hours"}, c.Names().Names())

		m, err := c.Search("7 days", 0)
		require.NoError(t, err)
		text, ok := m.Named("days")
		require.True(t, ok)
		require.Equal(t, "7", text)
		_, ok = m.Named("hours")
		require.False(t, ok)
		_, ok = m.Named("weeks")
		require.False(t, ok)
	})
}

func TestByNameKeys(t *testing.T) {
	c, err := New(`(?<a>x)(y)(?<b>z)?`).Compile(0)
	require.NoError(t, err)

	m, err := c.Search("xy", 0)
	require.NoError(t, err)

	got, err := c.ByName(m)
	require.NoError(t, err)
	for k := range got {
		if k == WholeMatchKey {
			continue
		}
		_, ok := c.Names().Index(k)
		require.True(t, ok, k)
	}
	require.Equal(t, map[string]string{"$_": "xy", "a": "x"}, got)
}

func TestByNameErrors(t *testing.T) {
	c, err := New(`(?<a>x)`).Compile(0)
	require.NoError(t, err)

	_, err = c.ByName(nil)
	require.True(t, ErrReference.Is(err), "%v", err)

	other, err := New(`(x)(y)`).Compile(0)
	require.NoError(t, err)
	m, err := other.Search("xy", 0)
	require.NoError(t, err)

	_, err = c.ByName(m)
	require.True(t, ErrRuntime.Is(err), "%v", err)
}

func TestSubstitute(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		p := New(`\s+AND\s+`, WithEngine(e))

		out, err := p.Substitute("Ham  and  Eggs", " & ", 0, IgnoreCase)
		require.NoError(t, err)
		require.Equal(t, "Ham & Eggs", out)

		out, err = p.Substitute("Ham  and  Eggs", " & ", 0, 0)
		require.NoError(t, err)
		require.Equal(t, "Ham  and  Eggs", out)

		out, err = New(`a`, WithEngine(e)).Substitute("aaa", "b", 2, 0)
		require.NoError(t, err)
		require.Equal(t, "bba", out)

		out, err = New(`x*`, WithEngine(e)).Substitute("abc", "-", 0, 0)
		require.NoError(t, err)
		require.Equal(t, "-a-b-c", out)
	})
}

func TestSubstituteFunc(t *testing.T) {
	p := New(`\d+`)

	out, n, err := p.SubstituteFunc("a1b22c333", func(m *Match) (string, error) {
		return strings.Repeat("#", len(m.String())), nil
	}, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "a#b##c###", out)
	require.Equal(t, 3, n)

	out, n, err = p.SubstituteFunc("a1b22c333", func(m *Match) (string, error) {
		return "<" + m.String() + ">", nil
	}, 2, 0)
	require.NoError(t, err)
	require.Equal(t, "a<1>b<22>c333", out)
	require.Equal(t, 2, n)

	out, n, err = p.SubstituteFunc("none", func(*Match) (string, error) {
		return "x", nil
	}, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "none", out)
	require.Zero(t, n)

	boom := ErrValue.New("boom")
	_, _, err = p.SubstituteFunc("a1", func(*Match) (string, error) {
		return "", boom
	}, 0, 0)
	require.Equal(t, boom, err)

	_, err = p.Substitute("a1", "x", -1, 0)
	require.True(t, ErrValue.Is(err), "%v", err)
}

func TestSplit(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		cases := []struct {
			expr     string
			subject  string
			maxSplit int
			want     []string
		}{
			{`\W+`, "Words, words, words.", 0, []string{"Words", "words", "words", ""}},
			{`\W+`, "Words, words, words.", 1, []string{"Words", "words, words."}},
			{`(\W+)`, "Words, words.", 0, []string{"Words", ", ", "words", ".", ""}},
			{`(-)|(\+)`, "1-2+3", 0, []string{"1", "-", "2", "+", "3"}},
			{`,`, "abc", 0, []string{"abc"}},
			{`,`, "", 0, []string{""}},
		}

		for _, tc := range cases {
			got, err := New(tc.expr, WithEngine(e)).Split(tc.subject, tc.maxSplit, 0)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Split(%q, %q, %d) mismatch (-want +got):\n%s",
					tc.expr, tc.subject, tc.maxSplit, diff)
			}
		}
	})
}

func TestSplitRoundTrip(t *testing.T) {
	subjects := []string{"a,b,,c", ",lead", "trail,", "", "none", "ü,ö"}

	for _, s := range subjects {
		got, err := New(`,`).Split(s, 0, 0)
		require.NoError(t, err)
		require.Equal(t, s, strings.Join(got, ","), s)
	}

	_, err := New(`,`).Split("a", -1, 0)
	require.True(t, ErrValue.Is(err), "%v", err)
}

func TestCompileErrors(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		_, err := New("", WithEngine(e)).Compile(0)
		require.True(t, ErrValue.Is(err), "%v", err)

		_, err = New("(", WithEngine(e)).Compile(0)
		require.True(t, ErrSyntax.Is(err), "%v", err)

		_, ok := SyntaxOffset(err)
		require.True(t, ok)
		msg, ok := SyntaxMessage(err)
		require.True(t, ok)
		require.NotEmpty(t, msg)

		_, err = New("a", WithEngine(e)).Compile(Flags(1 << 10))
		require.True(t, ErrValue.Is(err), "%v", err)
	})

	_, ok := SyntaxOffset(ErrValue.New("x"))
	require.False(t, ok)
}

func TestCompileMemoized(t *testing.T) {
	p := New(`a(b)`)

	c1, err := p.Compile(0)
	require.NoError(t, err)
	c2, err := p.Compile(Anchored)
	require.NoError(t, err)
	require.Same(t, c1, c2)
	require.Equal(t, 1, c1.Groups())

	c3, err := p.Compile(IgnoreCase)
	require.NoError(t, err)
	require.NotSame(t, c1, c3)
	require.Equal(t, IgnoreCase, c3.Flags())

	bad := New(`(`)
	_, err1 := bad.Compile(0)
	_, err2 := bad.Compile(0)
	require.Error(t, err1)
	require.Same(t, err1, err2)
}

func TestCopiesShareCompiled(t *testing.T) {
	p := New(`ab`)
	q := *p

	c1, err := q.Compile(0)
	require.NoError(t, err)
	c2, err := p.Compile(0)
	require.NoError(t, err)
	require.Same(t, c1, c2)

	q.Set(`cd`)
	require.Equal(t, "cd", q.Expr())
	require.Equal(t, "ab", p.Expr())

	c3, err := q.Compile(0)
	require.NoError(t, err)
	require.NotSame(t, c1, c3)
	require.Equal(t, "cd", c3.Expr())

	c4, err := p.Compile(0)
	require.NoError(t, err)
	require.Same(t, c1, c4)
}

func TestOptimize(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		p := New(`(\w+)@(\w+)`, WithEngine(e))
		require.NoError(t, p.Optimize(0))
		require.NoError(t, p.Optimize(0))

		m, err := p.Search("mail bob@example", 0)
		require.NoError(t, err)
		require.Equal(t, Span{5, 16}, m.Span(0))
	})

	require.True(t, ErrValue.Is(New("").Optimize(0)))
}

func TestRepr(t *testing.T) {
	require.Equal(t, `<Pattern: "a\\d">`, New(`a\d`).Repr())
	require.Equal(t, "<Pattern>", New("").Repr())
	require.Equal(t, `a\d`, New(`a\d`).String())

	var p Pattern
	require.Equal(t, "<Pattern>", p.Repr())
	_, err := p.Compile(0)
	require.True(t, ErrValue.Is(err))

	p.Set("x")
	m, err := p.Search("yx", 0)
	require.NoError(t, err)
	require.Equal(t, 1, m.Start())
}

func TestMustCompile(t *testing.T) {
	require.Panics(t, func() { MustCompile("(", 0) })
	require.NotPanics(t, func() { MustCompile("a", IgnoreCase) })
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"I", "MULTILINE"})
	require.NoError(t, err)
	require.Equal(t, IgnoreCase|Multiline, f)

	_, err = ParseFlags([]string{"NOPE"})
	require.True(t, ErrValue.Is(err), "%v", err)
}

func TestLookupEngine(t *testing.T) {
	e, err := LookupEngine("")
	require.NoError(t, err)
	require.Equal(t, defaultEngineName, e.Name())
	require.Equal(t, e, New("a").Engine())

	e, err = LookupEngine("backtrack")
	require.NoError(t, err)
	require.Equal(t, "backtrack", e.Name())

	_, err = LookupEngine("nope")
	require.True(t, ErrValue.Is(err), "%v", err)
}

func TestAllAt(t *testing.T) {
	c, err := New(`(?<=a)b`).Compile(0)
	require.NoError(t, err)

	ms, err := collect(c.AllAt("abab", 1, 0))
	require.NoError(t, err)
	require.Equal(t, [][]Span{{{1, 2}}, {{3, 4}}}, spansOf(ms))

	ms, err = collect(c.AllAt("abab", 2, 0))
	require.NoError(t, err)
	require.Equal(t, [][]Span{{{3, 4}}}, spansOf(ms))

	_, err = collect(c.AllAt("abab", 5, 0))
	require.True(t, ErrValue.Is(err), "%v", err)
}

func collect(seq func(func(*Match, error) bool)) ([]*Match, error) {
	var out []*Match
	for m, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}

func TestUnicodeWordClass(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e engine.Engine) {
		m, err := New(`\w+`, WithEngine(e)).Search("héllo wörld", Unicode)
		require.NoError(t, err)
		require.Equal(t, Span{0, 6}, m.Span(0))
	})
}
