package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		want               string
	}{
		{0, 0, 10, "░░░░░░░░░░   0%"},
		{1, 2, 10, "█████░░░░░  50%"},
		{3, 3, 4, "█████ 100%"},
		{5, 4, 5, "█████ 100%"},
		{-1, 3, 6, "░░░░░░   0%"},
		{1, 3, 2, "█░░░░  33%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressBar(tt.done, tt.total, tt.width))
	}
}

func TestPanel_MonoFramesEveryLine(t *testing.T) {
	DisableColor()
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	Panel(&buf, []string{"Todos", "a longer line"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "+"))
	assert.Equal(t, "| Todos         |", lines[1])
	assert.Equal(t, "| a longer line |", lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "+"))
}

func TestSetTheme_UnknownFallsBackToClassic(t *testing.T) {
	SetTheme("pink")
	assert.Equal(t, "classic", Current().Name)

	SetTheme("NEON")
	assert.Equal(t, "neon", Current().Name)
	SetTheme("classic")
}

func TestOKAndFail(t *testing.T) {
	DisableColor()
	SetTheme("classic")

	var out, errOut bytes.Buffer
	OK(&out, "added")
	Fail(&errOut, "Todo does not exist")
	Hint(&errOut, "run `todo ls`")

	assert.Equal(t, "✔ added\n", out.String())
	assert.Equal(t, "✖ Todo does not exist\nHint: run `todo ls`\n", errOut.String())
}
