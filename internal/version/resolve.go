// Package version locates installed Cirrus versions and resolves version
// tokens to concrete install roots.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/equinor/runcirrus/internal/config"
	"github.com/equinor/runcirrus/internal/utils"
)

// RootDirName is the literal directory name that marks the versions root.
const RootDirName = "versions"

// RootNotFoundError reports that the upward walk reached the filesystem root
// without finding a directory named "versions". This means a broken
// installation rather than bad user input.
type RootNotFoundError struct {
	Start string // search-start path, exactly as given
}

func (e *RootNotFoundError) Error() string {
	return fmt.Sprintf("not able to locate install location from %s", e.Start)
}

// NotInstalledError reports that a requested version exists in none of the
// candidate roots.
type NotInstalledError struct {
	Version string
	Dir     string // last candidate root searched
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("Cirrus version '%s' is not installed in %s", e.Version, e.Dir)
}

// ResolveRoot returns the installed-versions directory.
//
// When the override environment variable is set its value is used verbatim
// (after ~ expansion) with no existence check. Otherwise the walk starts from
// startDir with symlinks resolved and climbs parent directories until one is
// literally named "versions". A *RootNotFoundError carries the unresolved
// startDir when the walk hits the filesystem root.
func ResolveRoot(startDir string) (string, error) {
	if override, ok := os.LookupEnv(config.VersionsPathEnv); ok {
		return utils.ExpandUser(override), nil
	}
	return walkToRoot(startDir)
}

func walkToRoot(startDir string) (string, error) {
	search := startDir
	if resolved, err := filepath.EvalSymlinks(startDir); err == nil {
		search = resolved
	}
	if abs, err := filepath.Abs(search); err == nil {
		search = abs
	}

	for filepath.Base(search) != RootDirName {
		parent := filepath.Dir(search)
		if parent == search {
			// Hit filesystem root
			return "", &RootNotFoundError{Start: startDir}
		}
		search = parent
	}
	return search, nil
}

// defaultVersionRe captures the simulator name and optional dotted version
// digits from the invoking program's basename, e.g. "runpflotran1.8.12".
var defaultVersionRe = regexp.MustCompile(`^run(cirrus|pflotran)(\d+(?:\.\d+)*)?`)

// DefaultVersion determines the default version token from the program name.
// A captured digit sequence wins; a bare "runpflotran" maps to "1.8";
// anything else maps to "stable".
func DefaultVersion(progName string) string {
	m := defaultVersionRe.FindStringSubmatch(progName)
	if m == nil {
		return "stable"
	}
	if m[2] != "" {
		return m[2]
	}
	if m[1] == "pflotran" {
		return "1.8"
	}
	return "stable"
}

// Resolve returns the install root for token, trying each candidate root in
// order and returning the first root/token directory that exists on disk.
// The returned path has symlinks resolved.
func Resolve(token string, roots []string) (string, error) {
	var last string
	for _, root := range roots {
		last = root
		install := filepath.Join(root, token)
		if resolved, err := filepath.EvalSymlinks(install); err == nil {
			install = resolved
		}
		if utils.DirExists(install) {
			return install, nil
		}
	}
	return "", &NotInstalledError{Version: token, Dir: last}
}

// List returns the installed version names under root, excluding hidden
// (dot-prefixed) entries, sorted for stable output.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("unable to list versions in %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// legacyNameCutoff is the first version shipping the renamed "cirrus"
// executable; older installs ship "pflotran".
var legacyNameCutoff = []int{1, 9}

// ExecutableName returns the simulator binary name for a version token.
// Versions numerically below 1.9 use the legacy "pflotran" name. The
// comparison is numeric per dotted segment (so "1.10" is newer than "1.9");
// non-numeric tokens such as "stable" resolve to "cirrus".
func ExecutableName(token string) string {
	if compareDotted(token, legacyNameCutoff) < 0 {
		return "pflotran"
	}
	return "cirrus"
}

// compareDotted compares a dotted version token against cutoff segments
// numerically. Each segment contributes its leading digits ("8-openpbs-rh8"
// counts as 8). Tokens whose first segment has no digits compare as newer.
func compareDotted(token string, cutoff []int) int {
	segments := strings.Split(token, ".")
	nums := make([]int, 0, len(segments))
	for _, seg := range segments {
		n, ok := leadingInt(seg)
		if !ok {
			break
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return 1
	}

	for i := 0; i < len(cutoff); i++ {
		if i >= len(nums) {
			// Prefix of the cutoff, e.g. "1" vs 1.9
			return -1
		}
		if nums[i] != cutoff[i] {
			if nums[i] < cutoff[i] {
				return -1
			}
			return 1
		}
	}
	return 1
}

// leadingInt parses the leading digit run of s.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
