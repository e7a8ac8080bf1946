package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"text":     ModeText,
		"markdown": ModeMarkdown,
		"json":     ModeJSON,
		"yaml":     ModeAuto,
	}
	for in, want := range tests {
		if got := Mode(in); got != want {
			t.Errorf("Mode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"explicit json on tty", ModeJSON, true, ModeJSON},
		{"explicit text piped", ModeText, false, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestHeader(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)
	r.Header(2, "Entities")
	assert.Equal(t, "## Entities\n\n", out.String())
}

func TestTable(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)
		r.Table([]string{"Entity", "Properties"}, [][]string{{"Samurai", "2"}, {"Quote", "3"}})

		got := out.String()
		assert.Contains(t, got, "| Entity | Properties |")
		assert.Contains(t, got, "| Samurai | 2 |")
		assert.Contains(t, got, "| Quote | 3 |")
	})

	t.Run("text", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := NewRendererWithTTY(out, &bytes.Buffer{}, true, ModeText)
		r.Table([]string{"Entity"}, [][]string{{"Samurai"}})

		got := out.String()
		assert.Contains(t, got, "Samurai")
		assert.Contains(t, got, "╭")
	})
}

func TestJSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeJSON)
	require.NoError(t, r.JSON(DAGOutput{TotalEntities: 2}))
	assert.Contains(t, out.String(), `"total_entities": 2`)
}

func TestDiagnosticsGoToErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeText)
	r.Success("converted")
	r.Warning("careful")
	r.Error("broken")

	assert.Empty(t, out.String())
	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	assert.Equal(t, []string{"✓ converted", "! careful", "✗ broken"}, lines)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "# Zero", FormatHeader(0, "Zero"))
	assert.Equal(t, "- **Context:** Samurai", FormatKeyValue("Context", "Samurai"))
	assert.Equal(t, "-", FormatList(nil))
	assert.Equal(t, "a, b", FormatList([]string{"a", "b"}))
}

func TestStatusLine(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)
	r.StatusLine("Samurai.txt", "success", "10 nodes")
	r.StatusLine("Broken.txt", "failed", "")
	assert.Equal(t, "✓ Samurai.txt  10 nodes\n✗ Broken.txt\n", out.String())
}

func TestStylesFor(t *testing.T) {
	var buf bytes.Buffer

	plain := lipgloss.NewRenderer(&buf)
	plain.SetColorProfile(termenv.Ascii)
	assert.Equal(t, "Samurai", StylesFor(plain).Entity.Render("Samurai"))

	colored := lipgloss.NewRenderer(&buf)
	colored.SetColorProfile(termenv.ANSI256)
	assert.Contains(t, StylesFor(colored).Error.Render("failed"), "\x1b[")
}

func TestTerminalStyles_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	styles := TerminalStyles(&buf)
	assert.Equal(t, "Samurai", styles.Entity.Render("Samurai"))
}
