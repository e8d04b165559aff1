// Copyright (C) 2011 Florian Weimer <fw@deneb.enyo.de>


package pattern

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/GRbit/go-pattern/engine"
)

// stubEngine compiles every expression to a program replaying canned
// results.
type stubEngine struct {
	groups  int
	names   []engine.CaptureName
	out     []int
	execErr error
	optErr  error
}

func (s stubEngine) Name() string { return "stub" }

func (s stubEngine) Compile(string, engine.Flags) (engine.Program, error) {
	return stubProgram{s}, nil
}

type stubProgram struct{ s stubEngine }

func (p stubProgram) CaptureCount() int { return p.s.groups }

func (p stubProgram) Names() ([]engine.CaptureName, error) { return p.s.names, nil }

func (p stubProgram) Optimize() (engine.Optimized, error) { return nil, p.s.optErr }

func (p stubProgram) Exec(_ engine.Optimized, _ string, _ int, _ engine.Flags) ([]int, error) {
	return p.s.out, p.s.execErr
}

func TestBrokenEngineOffsets(t *testing.T) {
	cases := map[string][]int{
		"short":       {0, 1},
		"past end":    {0, 9, -1, -1},
		"reversed":    {2, 1, -1, -1}, // \K inside a lookahead
		"half unset":  {0, 1, 0, -1},
		"whole unset": {-1, -1, -1, -1},
	}

	for name, out := range cases {
		t.Run(name, func(t *testing.T) {
			p := New("x", WithEngine(stubEngine{groups: 1, out: out}))
			_, err := p.Search("abc", 0)
			require.True(t, ErrReference.Is(err), "%v", err)
		})
	}

	// \K inside a lookbehind can report a start before the offset.
	p := New("x", WithEngine(stubEngine{groups: 1, out: []int{0, 1, -1, -1}}))
	_, err := p.MatchAt("abc", 1, 0)
	require.True(t, ErrReference.Is(err), "%v", err)
}

func TestBrokenEngineNames(t *testing.T) {
	_, err := New("x", WithEngine(stubEngine{
		groups: 1,
		names:  []engine.CaptureName{{Name: "a", Index: 2}},
	})).Compile(0)
	require.True(t, ErrRuntime.Is(err), "%v", err)

	_, err = New("x", WithEngine(stubEngine{
		groups: 2,
		names:  []engine.CaptureName{{Name: "a", Index: 1}, {Name: "b", Index: 1}},
	})).Compile(0)
	require.True(t, ErrRuntime.Is(err), "%v", err)

	_, err = New("x", WithEngine(stubEngine{
		groups: 2,
		names:  []engine.CaptureName{{Name: "a", Index: 1}, {Name: "a", Index: 2}},
	})).Compile(0)
	require.True(t, ErrValue.Is(err), "%v", err)

	_, err = New("x", WithEngine(stubEngine{groups: -1})).Compile(0)
	require.True(t, ErrRuntime.Is(err), "%v", err)
}

func TestNameTableOrder(t *testing.T) {
	c, err := New("x", WithEngine(stubEngine{
		groups: 3,
		names:  []engine.CaptureName{{Name: "z", Index: 3}, {Name: "a", Index: 1}},
	})).Compile(0)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "z"}, c.Names().Names())
	require.Equal(t, 2, c.Names().Len())
}

func TestEngineExecErrors(t *testing.T) {
	failing := errors.NewKind("exec failed").New()
	p := New("x", WithEngine(stubEngine{execErr: failing}))

	_, err := p.Search("abc", 0)
	require.True(t, ErrRuntime.Is(err), "%v", err)

	for _, err := range p.All("abc", 0) {
		require.True(t, ErrRuntime.Is(err), "%v", err)
	}

	unsupported := engine.ErrUnsupportedFlags.New("stub", "NOTBOL")
	_, err = New("x", WithEngine(stubEngine{execErr: unsupported})).Search("abc", NotBOL)
	require.True(t, ErrValue.Is(err), "%v", err)
}

func TestOptimizeFailure(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	broken := errors.NewKind("study failed").New()
	stub := stubEngine{out: []int{0, 1}, optErr: broken}

	p := New("x", WithEngine(stub), WithOptimize(), WithLogger(log))
	c, err := p.Compile(0)
	require.NoError(t, err)
	require.False(t, c.Optimized())

	m, err := c.Search("xyz", 0)
	require.NoError(t, err)
	require.Equal(t, Span{0, 1}, m.Span(0))

	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	require.Equal(t, "x", hook.LastEntry().Data["pattern"])

	err = p.Optimize(0)
	require.True(t, ErrRuntime.Is(err), "%v", err)
}

func TestCompileLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	_, err := New(`(a)(b)`, WithLogger(log)).Compile(IgnoreCase)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, "pattern compiled", entry.Message)
	require.Equal(t, 2, entry.Data["groups"])
	require.Equal(t, "IGNORECASE", entry.Data["flags"])
}
