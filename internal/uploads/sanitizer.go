// Package uploads handles safe storage and serving of user-submitted files.
package uploads

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mingle/internal/observability"
)

// ErrDisallowedType is returned when a filename's extension is outside the
// configured allow-list.
var ErrDisallowedType = errors.New("file type not allowed")

// ErrActiveContent is returned by the serve guard for filenames ending in an
// active-content extension.
var ErrActiveContent = errors.New("active content is never served")

// activeContentSuffixes are blocked on serve regardless of the allow-list.
var activeContentSuffixes = []string{".html", ".htm", ".js"}

// Sanitizer stores uploads under Dir with randomized names, admitting only
// extensions in Allowed. The same allow-list gates serving files back.
type Sanitizer struct {
	Dir     string
	Allowed map[string]struct{}
}

// New returns a Sanitizer writing to dir with the given allowed extension set.
func New(dir string, allowed map[string]struct{}) *Sanitizer {
	return &Sanitizer{Dir: dir, Allowed: allowed}
}

// SecureFilename reduces a client-supplied filename to a filesystem-safe
// form: path components are stripped, spaces become underscores, and any
// byte outside [A-Za-z0-9._-] is dropped. Leading dots are trimmed so the
// result can never be a hidden or relative path.
func SecureFilename(name string) string {
	// Strip any path, whichever separator the client used.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}

// Ext returns the lowercase extension of name without the dot, or "" when
// there is none.
func Ext(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// Allowed reports whether the filename's extension is in the allow-list.
func (s *Sanitizer) AllowedName(name string) bool {
	_, ok := s.Allowed[Ext(name)]
	return ok
}

// Save sanitizes the original filename, rejects disallowed extensions
// without writing anything, and otherwise stores the content under a
// unique name of the form <16-hex-chars>_<sanitized-name>. The uploads
// directory is created if absent. The stored filename is returned.
func (s *Sanitizer) Save(src io.Reader, originalName string) (string, error) {
	name := SecureFilename(originalName)
	if !s.AllowedName(name) {
		observability.UploadsRejected.WithLabelValues("extension").Inc()
		return "", ErrDisallowedType
	}

	token := make([]byte, 8)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	unique := hex.EncodeToString(token) + "_" + name

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(s.Dir, unique))
	if err != nil {
		return "", err
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return unique, nil
}

// CheckServable applies the outbound guard: active-content suffixes are
// always rejected, then the extension must be in the allow-list. This is
// the second half of the double allow-list check.
func (s *Sanitizer) CheckServable(name string) error {
	lower := strings.ToLower(name)
	for _, suffix := range activeContentSuffixes {
		if strings.HasSuffix(lower, suffix) {
			observability.UploadsRejected.WithLabelValues("active_content").Inc()
			return ErrActiveContent
		}
	}
	if !s.AllowedName(lower) {
		observability.UploadsRejected.WithLabelValues("extension").Inc()
		return ErrDisallowedType
	}
	return nil
}

// Path returns the absolute location of a stored file. The name is reduced
// to its base component first, so a crafted path segment cannot escape the
// uploads directory.
func (s *Sanitizer) Path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name))
}
