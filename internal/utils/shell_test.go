package utils

import (
	"reflect"
	"testing"
)

func TestShellSplit(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"bsub", []string{"bsub"}},
		{"-W 02:00", []string{"-W", "02:00"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{`-P "my project"`, []string{"-P", "my project"}},
		{`-P 'my project'`, []string{"-P", "my project"}},
		{`a"b c"d`, []string{"ab cd"}},
		{`'it'\''s'`, []string{`it\s`}},
	}

	for _, c := range cases {
		if got := ShellSplit(c.line); !reflect.DeepEqual(got, c.want) {
			t.Errorf("ShellSplit(%q) = %#v, want %#v", c.line, got, c.want)
		}
	}
}

func TestShellQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "'plain'"},
		{"with space", "'with space'"},
		{"it's", `'it'\''s'`},
	}

	for _, c := range cases {
		if got := ShellQuote(c.in); got != c.want {
			t.Errorf("ShellQuote(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestShellJoin(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"bsub", "-q", "bigmem"}, "bsub -q bigmem"},
		{[]string{"bash", "-c", "echo hi"}, "bash -c 'echo hi'"},
		{[]string{""}, "''"},
	}

	for _, c := range cases {
		if got := ShellJoin(c.args); got != c.want {
			t.Errorf("ShellJoin(%v) = %q, want %q", c.args, got, c.want)
		}
	}
}
