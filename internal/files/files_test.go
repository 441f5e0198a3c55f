package files

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/apperr"
)

var storedName = regexp.MustCompile(`^team_7/[0-9a-f]{32}\.pdf$`)

func TestSave(t *testing.T) {
	s, err := New(t.TempDir(), Options{})
	require.NoError(t, err)

	rel, err := s.Save(7, KindReport, "Final Report.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Regexp(t, storedName, rel)
	assert.True(t, s.Exists(rel))

	content, err := os.ReadFile(filepath.Join(s.Root(), rel))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(content))

	other, err := s.Save(7, KindReport, "Final Report.pdf", strings.NewReader("v2"))
	require.NoError(t, err)
	assert.NotEqual(t, rel, other, "names must not collide")
}

func TestSaveRejects(t *testing.T) {
	t.Run("empty file name", func(t *testing.T) {
		s, err := New(t.TempDir(), Options{})
		require.NoError(t, err)

		_, err = s.Save(1, KindSlide, "  ", strings.NewReader("x"))
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	t.Run("too large", func(t *testing.T) {
		s, err := New(t.TempDir(), Options{MaxSize: 4})
		require.NoError(t, err)

		_, err = s.Save(1, KindSlide, "deck.pptx", strings.NewReader("12345"))
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))

		entries, err := os.ReadDir(filepath.Join(s.Root(), "team_1"))
		require.NoError(t, err)
		assert.Empty(t, entries, "partial file must be removed")
	})

	t.Run("extension checks are off unless enforced", func(t *testing.T) {
		allowed := map[string][]string{KindReport: {".pdf", ".doc", ".docx"}}

		lenient, err := New(t.TempDir(), Options{AllowedExtensions: allowed})
		require.NoError(t, err)
		_, err = lenient.Save(1, KindReport, "notes.txt", strings.NewReader("x"))
		assert.NoError(t, err)

		strict, err := New(t.TempDir(), Options{AllowedExtensions: allowed, EnforceExtensions: true})
		require.NoError(t, err)
		_, err = strict.Save(1, KindReport, "notes.txt", strings.NewReader("x"))
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
		_, err = strict.Save(1, KindReport, "notes.PDF", strings.NewReader("x"))
		assert.NoError(t, err)
	})
}

func TestDelete(t *testing.T) {
	s, err := New(t.TempDir(), Options{})
	require.NoError(t, err)

	rel, err := s.Save(3, KindReport, "a.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	assert.True(t, s.Delete(rel))
	assert.False(t, s.Exists(rel))
	assert.False(t, s.Delete(rel), "second delete reports missing file")
	assert.False(t, s.Delete(""))
	assert.False(t, s.Delete("../../etc/passwd"))
}
