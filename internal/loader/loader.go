// Package loader reads captured debug view dumps from disk or a stream.
package loader

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultContext labels the model root when nothing better is known.
const DefaultContext = "DbContext"

// StdinName names standard input as a source.
const StdinName = "-"

// ErrGeneratorFailed is wrapped when the dump is an "Error:" report from the
// process that produced it instead of a debug view.
var ErrGeneratorFailed = errors.New("debug view generator reported an error")

// Source is a loaded debug view.
type Source struct {
	Path        string
	Context     string
	Lines       []string
	Hash        string
	Frontmatter Frontmatter
}

// LoadError wraps a failure to load one source.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadFile reads the debug view at path. An empty context is resolved from
// the frontmatter, then from the file name.
func LoadFile(path, context string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return parse(path, data, context)
}

// Load reads a debug view from r. name is used for error messages and as
// the context fallback.
func Load(r io.Reader, name, context string) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return parse(name, data, context)
}

func parse(path string, data []byte, context string) (*Source, error) {
	text, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	fm, body, _, err := splitFrontmatter(text)
	if err != nil {
		var fe *FrontmatterError
		if errors.As(err, &fe) {
			fe.File = path
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	body, err = stripBanner(body)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if context == "" {
		context = fm.Context
	}
	if context == "" {
		context = ContextName(path)
	}

	sum := sha256.Sum256([]byte(body))
	return &Source{
		Path:        path,
		Context:     context,
		Lines:       SplitLines(body),
		Hash:        hex.EncodeToString(sum[:]),
		Frontmatter: fm,
	}, nil
}

// Decode converts raw bytes to text, honoring a UTF-8 or UTF-16 byte order
// mark, and normalizes line endings to "\n".
func Decode(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode input: %w", err)
	}
	out = bytes.ReplaceAll(out, []byte("\r\n"), []byte("\n"))
	out = bytes.ReplaceAll(out, []byte("\r"), []byte("\n"))
	return string(out), nil
}

// SplitLines splits text into lines without terminators, dropping one
// trailing empty line. Empty text yields an empty, non-nil slice.
func SplitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

// stripBanner removes a leading "Result:" line and turns a leading "Error:"
// report, on its own line or followed by the message, into ErrGeneratorFailed.
func stripBanner(text string) (string, error) {
	trimmed := strings.TrimLeft(text, "\n")
	first, rest, _ := strings.Cut(trimmed, "\n")
	first = strings.TrimSpace(first)
	if first == "Result:" {
		return rest, nil
	}
	if report, ok := strings.CutPrefix(first, "Error:"); ok {
		msg := strings.TrimSpace(strings.TrimSpace(report) + "\n" + strings.TrimSpace(rest))
		return "", fmt.Errorf("%w: %s", ErrGeneratorFailed, msg)
	}
	return text, nil
}

// ContextName derives a context label from a file path: the base name
// without its extension.
func ContextName(path string) string {
	if path == "" || path == StdinName {
		return DefaultContext
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return DefaultContext
	}
	return name
}
