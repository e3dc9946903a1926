package version

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/equinor/runcirrus/internal/config"
)

func TestDefaultVersion(t *testing.T) {
	cases := []struct {
		progName string
		want     string
	}{
		{"runcirrus", "stable"},
		{"runpflotran", "1.8"},
		{"runpflotran1.8.12", "1.8.12"},
		{"runpflotran1.8-openpbs-rh8", "1.8"},
		{"runcirrus2.1", "2.1"},
		{"some-other-tool", "stable"},
	}

	for _, c := range cases {
		if got := DefaultVersion(c.progName); got != c.want {
			t.Errorf("DefaultVersion(%q) = %q, want %q", c.progName, got, c.want)
		}
	}
}

func TestWalkToRootFindsFirstAncestor(t *testing.T) {
	tmp := t.TempDir()
	binDir := filepath.Join(tmp, "cirrus", "versions", ".store", "d312321-runcirrus-1.0.0", "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}

	root, err := walkToRoot(binDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(tmp, "cirrus", "versions")
	// TempDir may itself contain symlinked segments; compare resolved paths.
	if resolved, err := filepath.EvalSymlinks(want); err == nil {
		want = resolved
	}
	if root != want {
		t.Errorf("walkToRoot = %q, want %q", root, want)
	}
}

func TestWalkToRootFollowsSymlinks(t *testing.T) {
	tmp := t.TempDir()
	realBin := filepath.Join(tmp, "cirrus", "versions", ".store", "d312321-runcirrus-1.0.0", "bin")
	if err := os.MkdirAll(realBin, 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}

	linkDir := filepath.Join(tmp, "bin")
	if err := os.MkdirAll(filepath.Dir(linkDir), 0755); err != nil {
		t.Fatalf("failed to create link parent: %v", err)
	}
	if err := os.Symlink(realBin, linkDir); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	root, err := walkToRoot(linkDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(root) != RootDirName {
		t.Errorf("walkToRoot = %q, want a path ending in %q", root, RootDirName)
	}
}

func TestWalkToRootFailsWithExactStartPath(t *testing.T) {
	start := t.TempDir() // no "versions" component anywhere above /tmp

	_, err := walkToRoot(start)
	if err == nil {
		t.Fatalf("expected error for path without versions component")
	}

	var notFound *RootNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *RootNotFoundError, got %T", err)
	}
	if notFound.Start != start {
		t.Errorf("reported start path %q, want %q", notFound.Start, start)
	}
}

func TestResolveRootEnvOverride(t *testing.T) {
	t.Setenv(config.VersionsPathEnv, "/custom/versions")

	root, err := ResolveRoot("/irrelevant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Used verbatim, no existence check at this stage.
	if root != "/custom/versions" {
		t.Errorf("ResolveRoot = %q, want %q", root, "/custom/versions")
	}
}

func TestListSkipsHiddenEntries(t *testing.T) {
	tmp := t.TempDir()
	for _, name := range []string{"1.10", ".store"} {
		if err := os.Mkdir(filepath.Join(tmp, name), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	names, err := List(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 || names[0] != "1.10" {
		t.Errorf("List = %v, want [1.10]", names)
	}
}

func TestListEmptyDirectory(t *testing.T) {
	names, err := List(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List = %v, want empty", names)
	}
}

func TestResolvePicksFirstExistingRoot(t *testing.T) {
	primary := t.TempDir()
	fallback := t.TempDir()
	if err := os.Mkdir(filepath.Join(fallback, "1.8.12"), 0755); err != nil {
		t.Fatalf("failed to create version dir: %v", err)
	}

	install, err := Resolve("1.8.12", []string{primary, fallback})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(fallback, "1.8.12")
	if resolved, err := filepath.EvalSymlinks(want); err == nil {
		want = resolved
	}
	if install != want {
		t.Errorf("Resolve = %q, want %q", install, want)
	}
}

func TestResolveNotInstalled(t *testing.T) {
	primary := t.TempDir()
	fallback := t.TempDir()

	_, err := Resolve("9.9", []string{primary, fallback})
	if err == nil {
		t.Fatalf("expected error for missing version")
	}

	var notInstalled *NotInstalledError
	if !errors.As(err, &notInstalled) {
		t.Fatalf("expected *NotInstalledError, got %T", err)
	}
	if notInstalled.Version != "9.9" {
		t.Errorf("error version = %q, want %q", notInstalled.Version, "9.9")
	}
	if notInstalled.Dir != fallback {
		t.Errorf("error dir = %q, want last searched root %q", notInstalled.Dir, fallback)
	}
}

func TestExecutableName(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"1.8", "pflotran"},
		{"1.8.12", "pflotran"},
		{"1.8-openpbs-rh8", "pflotran"},
		{"1", "pflotran"},
		{"1.9", "cirrus"},
		{"1.9.1", "cirrus"},
		{"1.10", "cirrus"}, // numeric comparison: 1.10 is newer than 1.9
		{"2", "cirrus"},
		{"stable", "cirrus"},
	}

	for _, c := range cases {
		if got := ExecutableName(c.token); got != c.want {
			t.Errorf("ExecutableName(%q) = %q, want %q", c.token, got, c.want)
		}
	}
}
