package uploads

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageSet() map[string]struct{} {
	return map[string]struct{}{
		"png": {}, "jpg": {}, "jpeg": {}, "gif": {},
	}
}

func TestSecureFilename(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"cat.png":                "cat.png",
		"My Holiday Photo.jpg":   "My_Holiday_Photo.jpg",
		"../../../etc/passwd":    "passwd",
		"..\\..\\windows\\x.png": "x.png",
		".hidden.png":            "hidden.png",
		"...leading.gif":         "leading.gif",
		"we√rd→chars.png":        "werdchars.png",
		"a/b/c/pic.jpeg":         "pic.jpeg",
	}
	for in, want := range cases {
		assert.Equal(t, want, SecureFilename(in), "input %q", in)
	}
}

func TestExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "png", Ext("cat.PNG"))
	assert.Equal(t, "jpg", Ext("a.b.jpg"))
	assert.Equal(t, "", Ext("noext"))
}

func TestSaveAllowedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(filepath.Join(dir, "uploads"), imageSet())

	stored, err := s.Save(strings.NewReader("fake image"), "Summer Trip.JPG")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}_Summer_Trip\.JPG$`), stored)

	data, err := os.ReadFile(filepath.Join(s.Dir, stored))
	require.NoError(t, err)
	assert.Equal(t, "fake image", string(data))
}

func TestSaveUniquePrefixPerCall(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir(), imageSet())

	first, err := s.Save(bytes.NewReader([]byte("a")), "same.png")
	require.NoError(t, err)
	second, err := s.Save(bytes.NewReader([]byte("b")), "same.png")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSaveRejectsDisallowedExtensionWithoutWriting(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "uploads")
	s := New(dir, imageSet())

	_, err := s.Save(strings.NewReader("<script>"), "payload.html")
	require.ErrorIs(t, err, ErrDisallowedType)

	// Nothing was written, not even the directory.
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveRejectsNameWithoutExtension(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir(), imageSet())
	_, err := s.Save(strings.NewReader("x"), "noextension")
	assert.ErrorIs(t, err, ErrDisallowedType)
}

func TestCheckServable(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir(), imageSet())

	assert.NoError(t, s.CheckServable("abc.png"))
	assert.NoError(t, s.CheckServable("ABC.JPG"))

	assert.ErrorIs(t, s.CheckServable("evil.js"), ErrActiveContent)
	assert.ErrorIs(t, s.CheckServable("evil.html"), ErrActiveContent)
	assert.ErrorIs(t, s.CheckServable("evil.HTM"), ErrActiveContent)
	assert.ErrorIs(t, s.CheckServable("notes.txt"), ErrDisallowedType)
	assert.ErrorIs(t, s.CheckServable("noext"), ErrDisallowedType)
}

func TestCheckServableActiveContentBeatsAllowList(t *testing.T) {
	t.Parallel()

	// Even a misconfigured allow-list cannot make active content servable.
	s := New(t.TempDir(), map[string]struct{}{"js": {}, "html": {}})
	assert.ErrorIs(t, s.CheckServable("evil.js"), ErrActiveContent)
	assert.ErrorIs(t, s.CheckServable("evil.html"), ErrActiveContent)
}

func TestPathStripsTraversal(t *testing.T) {
	t.Parallel()

	s := New("/srv/uploads", imageSet())
	assert.Equal(t, filepath.Join("/srv/uploads", "passwd"), s.Path("../../etc/passwd"))
	assert.Equal(t, filepath.Join("/srv/uploads", "pic.png"), s.Path("pic.png"))
}
