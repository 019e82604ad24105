package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLine(input string) (*Line, *bytes.Buffer) {
	color.NoColor = true
	out := &bytes.Buffer{}
	return NewLine(strings.NewReader(input), out), out
}

func TestConfirm(t *testing.T) {
	tcs := []struct {
		Description string
		Input       string
		Default     bool
		Expected    bool
	}{
		{Description: "empty takes default yes", Input: "\n", Default: true, Expected: true},
		{Description: "empty takes default no", Input: "\n", Default: false, Expected: false},
		{Description: "yes", Input: "YES\n", Expected: true},
		{Description: "n", Input: "n\n", Default: true, Expected: false},
		{Description: "retries outside limit", Input: "maybe\ny\n", Expected: true},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			p, _ := newTestLine(tc.Input)
			got, err := p.Confirm("Position relatively? [y/n]", tc.Default)
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, got)
		})
	}
}

func TestConfirm_ShowsDefault(t *testing.T) {
	p, out := newTestLine("\n")
	_, err := p.Confirm("Position relatively? [y/n]", false)
	require.NoError(t, err)
	assert.Equal(t, "Position relatively? [y/n] (n) ", out.String())
}

func TestSelect(t *testing.T) {
	tcs := []struct {
		Description string
		Input       string
		Cancel      string
		Expected    int
	}{
		{Description: "first", Input: "1\n", Expected: 0},
		{Description: "last", Input: "3\n", Expected: 2},
		{Description: "cancel", Input: "0\n", Cancel: "[CANCEL]", Expected: -1},
		{Description: "zero without cancel retries", Input: "0\n2\n", Expected: 1},
		{Description: "garbage retries", Input: "x\n4\n3\n", Expected: 2},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			p, _ := newTestLine(tc.Input)
			got, err := p.Select("target:", []string{"A", "B", "C"}, tc.Cancel)
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, got)
		})
	}
}

func TestSelect_ListsOptions(t *testing.T) {
	p, out := newTestLine("1\n")
	_, err := p.Select("target:", []string{"A", "B"}, "current: B")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "[1] A\n[2] B\n[0] current: B\n")
	assert.Contains(t, out.String(), "target: [1...2 / 0]: ")
}

func TestSelect_NothingToChoose(t *testing.T) {
	p, _ := newTestLine("")
	_, err := p.Select("service:", nil, "")
	assert.Error(t, err)
}

func TestChoice(t *testing.T) {
	p, out := newTestLine("\njustify\ncenter\n")

	got, err := p.Choice("align:", []string{"left", "right", "center"}, "left")
	require.NoError(t, err)
	assert.Equal(t, "left", got)

	got, err = p.Choice("align:", []string{"left", "right", "center"}, "left")
	require.NoError(t, err)
	assert.Equal(t, "center", got)
	assert.Contains(t, out.String(), "[left, right, center]")
}

func TestFloat(t *testing.T) {
	p, out := newTestLine("\n-2.5\nabc\nnan\ninf\n-Inf\n7\n")

	got, err := p.Float("width:", 200)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got)

	got, err = p.Float("x:", 0)
	require.NoError(t, err)
	assert.Equal(t, -2.5, got)

	got, err = p.Float("y:", 0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
	assert.Equal(t, 4, strings.Count(out.String(), "Input valid number, please."))
}

func TestText(t *testing.T) {
	p, _ := newTestLine("  hello world  \n")
	got, err := p.Text("content:")
	require.NoError(t, err)
	assert.Equal(t, "  hello world  ", got)
}

func TestMultiLine(t *testing.T) {
	tcs := []struct {
		Description string
		Input       string
		Expected    string
	}{
		{Description: "single line", Input: "only\n", Expected: "only"},
		{Description: "backslash", Input: "first\\\nsecond\n", Expected: "first\nsecond"},
		{Description: "two spaces", Input: "first  \nsecond  \nthird\n", Expected: "first\nsecond\nthird"},
		{Description: "one space ends", Input: "first \nsecond\n", Expected: "first "},
		{Description: "crlf", Input: "a\\\r\nb\r\n", Expected: "a\nb"},
		{Description: "last line without newline", Input: "a\\\nb", Expected: "a\nb"},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			p, _ := newTestLine(tc.Input)
			got, err := p.MultiLine("")
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, got)
		})
	}
}

func TestMultiLine_PrintsTitle(t *testing.T) {
	p, out := newTestLine("x\n")
	_, err := p.MultiLine("content:")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "content:\n"))
}

func TestEndOfInput(t *testing.T) {
	p, _ := newTestLine("")
	_, err := p.Float("x:", 0)
	assert.ErrorIs(t, err, ErrNoInput)

	p, _ = newTestLine("a\\\n")
	_, err = p.MultiLine("")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestValidFloat(t *testing.T) {
	assert.NoError(t, validFloat(" 3.5 "))
	assert.Error(t, validFloat("three"))
	assert.Error(t, validFloat("nan"))
	assert.Error(t, validFloat("inf"))
	assert.Error(t, validFloat("+Inf"))
	assert.Error(t, validFloat(3.5))
}
