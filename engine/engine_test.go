// Copyright (C) 2011 Florian Weimer <fw@deneb.enyo.de>


package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlagsParts(t *testing.T) {
	f := IgnoreCase | DotAll | Anchored | NotEOL | Native(0x8000)

	require.Equal(t, IgnoreCase|DotAll, f.Compile())
	require.Equal(t, Anchored|NotEOL|Native(0x8000), f.Exec())
	require.Equal(t, uint32(0x8000), f.Native())
	require.True(t, f.Has(IgnoreCase|Anchored))
	require.False(t, f.Has(Multiline))
	require.NoError(t, f.Validate())
}

func TestFlagsValidate(t *testing.T) {
	err := Flags(1 << 10).Validate()
	require.True(t, ErrUnknownFlags.Is(err), "%v", err)

	require.NoError(t, Flags(0).Validate())
	require.NoError(t, (CompileMask | ExecMask).Validate())
}

func TestFlagsString(t *testing.T) {
	cases := []struct {
		f    Flags
		want string
	}{
		{0, "0"},
		{IgnoreCase, "IGNORECASE"},
		{IgnoreCase | Unicode | Anchored, "IGNORECASE|UNICODE|ANCHORED"},
		{Extended | Native(0x20), "EXTENDED|NATIVE(0x20)"},
		{Multiline | Flags(1<<10), "MULTILINE|0x400"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, tc.f.String())
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"i", " VERBOSE ", "notempty_atstart", "S"})
	require.NoError(t, err)
	require.Equal(t, IgnoreCase|Extended|NotEmptyAtStart|DotAll, f)

	f, err = ParseFlags(nil)
	require.NoError(t, err)
	require.Zero(t, f)

	_, err = ParseFlags([]string{"I", "LOUD"})
	require.True(t, ErrUnknownFlagName.Is(err), "%v", err)
}

type namedEngine string

func (e namedEngine) Name() string { return string(e) }

func (e namedEngine) Compile(string, Flags) (Program, error) {
	return nil, &CompileError{Message: "not implemented", Offset: -1}
}

func TestRegistry(t *testing.T) {
	Register(namedEngine("registry-test"))

	e, ok := Lookup("registry-test")
	require.True(t, ok)
	require.Equal(t, "registry-test", e.Name())
	require.Contains(t, Engines(), "registry-test")

	_, ok = Lookup("missing")
	require.False(t, ok)

	require.Panics(t, func() { Register(namedEngine("registry-test")) })
}

func TestCompileError(t *testing.T) {
	require.Equal(t, "missing ) at offset 3",
		(&CompileError{Expr: "abc(", Message: "missing )", Offset: 3}).Error())
	require.Equal(t, "bad", (&CompileError{Message: "bad", Offset: -1}).Error())
}
