package materialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const maxBaseLen = 150

// sanitizeBase turns arbitrary title or URL text into a safe file base
// name. Unicode letters survive; path separators, control characters, and
// filesystem-hostile punctuation do not.
func sanitizeBase(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteRune('_')
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	out = strings.Trim(out, ". ")
	if len(out) > maxBaseLen {
		out = out[:maxBaseLen]
		out = strings.ToValidUTF8(out, "")
	}
	if out == "" {
		out = "download"
	}
	return out
}

// reservePath claims dir/base+ext, appending " (2)", " (3)" and so on
// until a free name is found. The name is claimed by creating the file with
// O_EXCL, so concurrent workers with the same base each get a distinct
// path. The returned file exists, empty, owned by the caller.
func reservePath(dir, base, ext string) (string, error) {
	for i := 1; ; i++ {
		name := base + ext
		if i > 1 {
			name = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}
		p := filepath.Join(dir, name)
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			f.Close()
			return p, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("materialize: reserve %s: %w", p, err)
		}
	}
}
