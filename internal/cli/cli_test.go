package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// cli runs the command tree against a data file in dir.
type cli struct {
	t    *testing.T
	base []string
}

func newCLI(t *testing.T, extra ...string) *cli {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TODO_CONFIG", "")
	t.Setenv("TODO_DATA", "")
	t.Setenv("TODO_BACKEND", "")
	t.Setenv("TODO_THEME", "")
	base := []string{"--no-color", "--data", filepath.Join(t.TempDir(), "todos.json")}
	return &cli{t: t, base: append(base, extra...)}
}

func (c *cli) run(args ...string) result {
	c.t.Helper()
	var out, errOut bytes.Buffer
	code := Run(append(append([]string{}, c.base...), args...), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func (c *cli) ok(args ...string) string {
	c.t.Helper()
	r := c.run(args...)
	require.Equal(c.t, ExitSuccess, r.code, "todo %v failed: %s", args, r.stderr)
	return r.stdout
}

func (c *cli) getJSON(index string) indexed {
	c.t.Helper()
	var v indexed
	require.NoError(c.t, json.Unmarshal([]byte(c.ok("get", "--json", index)), &v))
	return v
}

func TestAddThenGet(t *testing.T) {
	c := newCLI(t)

	out := c.ok("add", "Wash", "Cloth", "-d", "Wash the cloth in the washing machine")
	assert.Contains(t, out, "added at index 0")

	out = c.ok("get", "0")
	assert.Equal(t, "#0 Wash Cloth\nWash the cloth in the washing machine\nstatus: pending\n", out)

	got := c.getJSON("0")
	assert.Equal(t, 0, got.Index)
	assert.Equal(t, "Wash Cloth", got.Title)
	assert.False(t, got.Done)
	assert.Equal(t, uint64(1), got.ID)
}

func TestGet_EmptyStore(t *testing.T) {
	c := newCLI(t)

	r := c.run("get", "0")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "Todo does not exist")
	assert.Contains(t, r.stderr, "Hint: run `todo ls`")
}

func TestRemove_SwapsLastIntoSlot(t *testing.T) {
	c := newCLI(t)
	c.ok("add", "Wash Cloth")
	c.ok("add", "Pick Cloth")

	out := c.ok("rm", "0")
	assert.Contains(t, out, "removed")
	assert.Contains(t, out, "todo 1 moved to index 0")

	assert.Equal(t, "Pick Cloth", c.getJSON("0").Title)
	assert.Equal(t, "1\n", c.ok("count"))
}

func TestRemove_ThenNotFound(t *testing.T) {
	c := newCLI(t)
	c.ok("add", "Wash Cloth")
	out := c.ok("rm", "0")
	assert.NotContains(t, out, "moved")

	for _, args := range [][]string{{"get", "0"}, {"rm", "0"}, {"done", "0"}, {"update", "0", "-t", "x"}} {
		r := c.run(args...)
		assert.Equal(t, ExitFailure, r.code, "%v", args)
		assert.Contains(t, r.stderr, "Todo does not exist", "%v", args)
	}
}

func TestDone_Idempotent(t *testing.T) {
	c := newCLI(t)
	c.ok("add", "Wash Cloth")

	c.ok("done", "0")
	c.ok("done", "0")
	assert.True(t, c.getJSON("0").Done)
}

func TestUpdate_PreservesDoneAndUnsetFields(t *testing.T) {
	c := newCLI(t)
	c.ok("add", "Wash Cloth", "-d", "Wash the cloth in the washing machine")
	c.ok("done", "0")

	c.ok("update", "0", "--title", "Pick Cloth")
	got := c.getJSON("0")
	assert.Equal(t, "Pick Cloth", got.Title)
	assert.Equal(t, "Wash the cloth in the washing machine", got.Description)
	assert.True(t, got.Done)

	c.ok("update", "0", "-d", "I will Pick Cloth")
	got = c.getJSON("0")
	assert.Equal(t, "Pick Cloth", got.Title)
	assert.Equal(t, "I will Pick Cloth", got.Description)
}

func TestUpdate_NothingToChange(t *testing.T) {
	c := newCLI(t)
	c.ok("add", "Wash Cloth")

	r := c.run("update", "0")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "nothing to change")
}

func TestList(t *testing.T) {
	c := newCLI(t)
	c.ok("add", "Wash Cloth")
	c.ok("add", "Pick Cloth")
	c.ok("add", "Fold Cloth")
	c.ok("done", "1")

	out := c.ok("ls")
	assert.Contains(t, out, "Todos  ✔ 1  • 2  Total 3")
	assert.Contains(t, out, " 0. ☐ Wash Cloth")
	assert.Contains(t, out, " 1. ☑ Pick Cloth")
	assert.Contains(t, out, " 2. ☐ Fold Cloth")

	out = c.ok("--group", "ls")
	pending := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	require.True(t, pending >= 0 && done > pending)
	assert.Contains(t, out[done:], " 1. ☑ Pick Cloth")
}

func TestList_JSONMatchesCount(t *testing.T) {
	c := newCLI(t)
	for i := 0; i < 3; i++ {
		c.ok("add", "Wash Cloth")
	}

	var all []indexed
	require.NoError(t, json.Unmarshal([]byte(c.ok("ls", "--json")), &all))
	assert.Len(t, all, 3)
	assert.Equal(t, "3\n", c.ok("count"))
	for i, r := range all {
		assert.Equal(t, i, r.Index)
	}
}

func TestList_Empty(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.ok("ls"), "no todos")
	assert.Equal(t, "0\n", c.ok("count"))
}

func TestSQLiteBackend(t *testing.T) {
	c := newCLI(t, "--backend", "sqlite", "--data", filepath.Join(t.TempDir(), "todos.db"))
	c.ok("add", "Wash Cloth")
	c.ok("add", "Pick Cloth")
	c.ok("rm", "0")

	assert.Equal(t, "Pick Cloth", c.getJSON("0").Title)
	assert.Equal(t, "1\n", c.ok("count"))
}

func TestBackendAndThemeFlagsIgnoreCase(t *testing.T) {
	c := newCLI(t, "--backend", "SQLite", "--theme", "Mono", "--data", filepath.Join(t.TempDir(), "todos.db"))
	c.ok("add", "Wash Cloth")

	assert.Equal(t, "Wash Cloth", c.getJSON("0").Title)
}

func TestUsageErrors(t *testing.T) {
	c := newCLI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "not a number", args: []string{"get", "abc"}, want: "get: not a number: abc"},
		{name: "unknown command", args: []string{"frobnicate"}, want: "unknown command"},
		{name: "missing index", args: []string{"done"}, want: "accepts 1 arg"},
		{name: "missing title", args: []string{"add"}, want: "requires at least 1 arg"},
		{name: "bad backend", args: []string{"--backend", "redis", "ls"}, want: `invalid backend "redis"`},
		{name: "bad theme", args: []string{"--theme", "pink", "ls"}, want: `invalid theme "pink"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := c.run(tt.args...)
			assert.Equal(t, ExitUsage, r.code)
			assert.Contains(t, r.stderr, tt.want)
		})
	}
}

func TestNegativeIndex(t *testing.T) {
	c := newCLI(t)
	c.ok("add", "Wash Cloth")

	r := c.run("get", "--", "-1")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "Todo does not exist")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitFailure, exitCode(failure(assert.AnError)))
	assert.Equal(t, ExitUsage, exitCode(usagef("bad")))
	assert.Equal(t, ExitUsage, exitCode(assert.AnError))
}
