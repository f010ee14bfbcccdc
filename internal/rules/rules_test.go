package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCatalogForTest(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := Default()
	require.NoError(t, err)
	return catalog
}

func labelsOf(matches []Match) []string {
	var labels []string
	for _, m := range matches {
		labels = append(labels, m.Label)
	}
	return labels
}

func TestDefaultCatalog(t *testing.T) {
	catalog := defaultCatalogForTest(t)

	for _, name := range []string{"linux", "windows", "macos", "bsd", "bug", "enhancement",
		"doc", "tests", "scripts", "wheels", "performance", "new-api", "new-platform", "priority-high"} {
		_, ok := catalog.Lookup(name)
		assert.True(t, ok, "label %q missing from default catalog", name)
	}

	assert.Len(t, catalog.IllogicalPairs, 7)
	assert.Equal(t, "scripts", catalog.Scripts.Label)
	assert.Equal(t, ".py", catalog.Scripts.Extension)
	assert.Contains(t, catalog.Reply(ReplyMissingPythonHeaders), "missing `Python.h` headers")
	assert.Equal(t,
		[]string{"linux", "windows", "macos", "aix", "cygwin", "bsd", "freebsd", "netbsd", "openbsd", "sunos", "wsl", "unix"},
		catalog.Group("os"))
}

func TestGuess(t *testing.T) {
	catalog := defaultCatalogForTest(t)

	testCases := []struct {
		name     string
		text     string
		expected []Match
	}{
		{
			name:     "Empty text",
			text:     "",
			expected: nil,
		},
		{
			name:     "No keyword",
			text:     "hello there",
			expected: nil,
		},
		{
			name:     "Case insensitive match",
			text:     "Crash on UBUNTU 22.04",
			expected: []Match{{Label: "linux", Keyword: "ubuntu"}, {Label: "bug", Keyword: "crash"}},
		},
		{
			name:     "Mixed case keyword matches lower case text",
			text:     "got a windowserror when calling it",
			expected: []Match{
				{Label: "windows", Keyword: "windows"},
				{Label: "windows", Keyword: "WindowsError"},
				{Label: "priority-high", Keyword: "WindowsError"},
			},
		},
		{
			name: "Every matching keyword of a label is reported",
			text: "debian linux",
			expected: []Match{
				{Label: "linux", Keyword: "linux"},
				{Label: "linux", Keyword: "debian"},
			},
		},
		{
			name: "One keyword triggers several labels",
			text: "appveyor is red",
			expected: []Match{
				{Label: "windows", Keyword: "appveyor"},
				{Label: "tests", Keyword: "appveyor"},
			},
		},
		{
			name:     "Keywords with spaces need the space",
			text:     "mac",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, catalog.Guess(tc.text))
		})
	}
}

// Every returned pair must be a real substring hit and every hit must be returned.
func TestGuessMatchesIffSubstring(t *testing.T) {
	catalog := defaultCatalogForTest(t)
	texts := []string{
		"Segmentation fault (core dumped) on FreeBSD 13",
		"* OS: macOS Big Sur\n",
		"psutil.Process().memory_maps() slow on Windows 10 with Visual Studio",
		"docs: fix README typo",
	}

	for _, text := range texts {
		got := map[Match]bool{}
		for _, m := range catalog.Guess(text) {
			got[m] = true
		}
		for _, label := range catalog.Labels {
			for _, kw := range label.Keywords {
				want := strings.Contains(strings.ToLower(text), strings.ToLower(kw))
				assert.Equal(t, want, got[Match{Label: label.Name, Keyword: kw}],
					"text %q label %q keyword %q", text, label.Name, kw)
			}
		}
	}
}

func TestConflict(t *testing.T) {
	catalog := defaultCatalogForTest(t)
	present := map[string]bool{"enhancement": true, "freebsd": true}
	has := func(name string) bool { return present[name] }

	pair, ok := catalog.Conflict("bug", has)
	assert.True(t, ok)
	assert.Equal(t, Pair{Left: "bug", Right: "enhancement"}, pair)

	_, ok = catalog.Conflict("bsd", has)
	assert.True(t, ok)

	// Pairs are directional.
	_, ok = catalog.Conflict("enhancement", func(name string) bool { return name == "bug" })
	assert.False(t, ok)

	_, ok = catalog.Conflict("linux", has)
	assert.False(t, ok)
}

func TestAddScripts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"pstree.py", "free.py", "README", "helper.sh"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "internal.py"), 0o755))

	catalog := defaultCatalogForTest(t)
	require.NoError(t, catalog.AddScripts(dir))

	scripts, ok := catalog.Lookup("scripts")
	require.True(t, ok)
	assert.Equal(t, []string{"free.py", "pstree.py"}, scripts.Keywords[len(scripts.Keywords)-2:])
	assert.NotContains(t, scripts.Keywords, "internal.py")
	assert.NotContains(t, scripts.Keywords, "helper.sh")

	assert.Contains(t, labelsOf(catalog.Guess("running pstree.py prints garbage")), "scripts")
}

func TestAddScriptsMissingDirectory(t *testing.T) {
	catalog := defaultCatalogForTest(t)
	before, _ := catalog.Lookup("scripts")

	require.NoError(t, catalog.AddScripts(filepath.Join(t.TempDir(), "does-not-exist")))

	after, _ := catalog.Lookup("scripts")
	assert.Equal(t, before.Keywords, after.Keywords)
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	const reply = "replies:\n  missingPythonHeaders: hi\n"

	testCases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "No labels",
			yaml:    "labels: []\n" + reply,
			wantErr: "no labels",
		},
		{
			name:    "Duplicate label",
			yaml:    "labels:\n  - name: bug\n  - name: bug\n" + reply,
			wantErr: "defined twice",
		},
		{
			name:    "Pair with unknown label",
			yaml:    "labels:\n  - name: bug\nillogicalPairs:\n  - {left: bug, right: nope}\n" + reply,
			wantErr: "unknown label",
		},
		{
			name:    "Unknown field",
			yaml:    "labels:\n  - name: bug\n    keyword: [crash]\n" + reply,
			wantErr: "failed to decode rules",
		},
		{
			name:    "Scripts label not defined",
			yaml:    "labels:\n  - name: bug\nscripts:\n  label: scripts\n" + reply,
			wantErr: "scripts label",
		},
		{
			name:    "Missing reply",
			yaml:    "labels:\n  - name: bug\n",
			wantErr: ReplyMissingPythonHeaders,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `labels:
  - name: arm
    keywords: [aarch64, "arm64"]
replies:
  missingPythonHeaders: install the headers
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Match{{Label: "arm", Keyword: "arm64"}}, catalog.Guess("Fails on ARM64"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
