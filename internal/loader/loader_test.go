package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

const view = "Model: \r\n  EntityType: Samurai\r\n    Properties: \r\n      Name (string) Required\r\n"

func TestLoad_NormalizesLineEndings(t *testing.T) {
	src, err := Load(strings.NewReader(view), "SamuraiContext.txt", "")
	require.NoError(t, err)

	assert.Equal(t, "SamuraiContext", src.Context)
	assert.Equal(t, []string{
		"Model: ",
		"  EntityType: Samurai",
		"    Properties: ",
		"      Name (string) Required",
	}, src.Lines)
	assert.Len(t, src.Hash, 64)
}

func TestLoad_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte(view))
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "Blog.txt")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	src, err := LoadFile(path, "Explicit")
	require.NoError(t, err)
	assert.Equal(t, "Explicit", src.Context)
	assert.Equal(t, "Model: ", src.Lines[0])
	assert.Len(t, src.Lines, 4)

	plain, err := Load(strings.NewReader(view), "x", "")
	require.NoError(t, err)
	assert.Equal(t, plain.Hash, src.Hash, "hash is computed over decoded text")
}

func TestLoad_UTF8BOM(t *testing.T) {
	src, err := Load(strings.NewReader("\ufeffModel: \n"), "-", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Model: "}, src.Lines)
	assert.Equal(t, DefaultContext, src.Context)
}

func TestLoad_Banners(t *testing.T) {
	src, err := Load(strings.NewReader("Result:\nModel: \n"), "a.txt", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Model: "}, src.Lines)

	_, err = Load(strings.NewReader("Error:\nLogin failed for user 'sa'.\n"), "b.txt", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGeneratorFailed))
	assert.Contains(t, err.Error(), "Login failed")

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "b.txt", le.Path)
}

func TestLoad_InlineErrorBanner(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single line",
			input: "Error: Unable to create a 'DbContext' of type 'BloggingContext'.\n",
			want:  []string{"Unable to create a 'DbContext' of type 'BloggingContext'."},
		},
		{
			name:  "message continues",
			input: "Error: Build failed.\nSee the inner exception.\n",
			want:  []string{"Build failed.", "See the inner exception."},
		},
		{
			name:  "indented banner",
			input: "\n  Error: boom\n",
			want:  []string{"boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Load(strings.NewReader(tt.input), "Failed.txt", "")
			require.Error(t, err)
			assert.Nil(t, src)
			assert.True(t, errors.Is(err, ErrGeneratorFailed))
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestLoadFile_FailedDump(t *testing.T) {
	_, err := LoadFile(filepath.Join("..", "..", "testdata", "views", "Failed.txt"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGeneratorFailed))
}

func TestLoad_StdinContext(t *testing.T) {
	src, err := Load(strings.NewReader("Model: \n"), StdinName, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultContext, src.Context)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_Empty(t *testing.T) {
	src, err := Load(strings.NewReader(""), "empty.txt", "")
	require.NoError(t, err)
	assert.NotNil(t, src.Lines)
	assert.Empty(t, src.Lines)
}

func TestContextName(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"SamuraiContext.txt", "SamuraiContext"},
		{"/tmp/views/Blogging.debugview", "Blogging"},
		{"noext", "noext"},
		{"-", DefaultContext},
		{"", DefaultContext},
	}
	for _, tt := range tests {
		if got := ContextName(tt.path); got != tt.want {
			t.Errorf("ContextName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
