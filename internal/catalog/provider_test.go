package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/dlserver/internal/domain"
)

const sampleCatalog = `
libraries:
  - name: 판교
    books:
      - title: 해리포터와 마법사의 돌
        exist: true
        bookUrl: http://example.org/1
      - title: 어린왕자
        exist: false
  - name: 동탄
    books:
      - title: Harry Potter and the Philosopher's Stone
        exist: true
  - name: 판교
    books:
      - title: duplicate
`

func loadSample(t *testing.T) *StaticProvider {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0644))
	p, err := LoadFile(path)
	require.NoError(t, err)
	return p
}

func TestStaticProvider_LibraryNames(t *testing.T) {
	p := loadSample(t)
	assert.Equal(t, []string{"판교", "동탄"}, p.LibraryNames())
}

func TestStaticProvider_SearchOneLibrary(t *testing.T) {
	p := loadSample(t)

	results, err := p.Search(context.Background(), "해리", "판교")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "판교", results[0].LibraryName)
	require.Len(t, results[0].Booklist, 1)

	b := results[0].Booklist[0]
	assert.Equal(t, "해리포터와 마법사의 돌", b.Title)
	assert.True(t, b.Exist)
	assert.Equal(t, "판교", b.LibraryName)
	assert.Equal(t, "http://example.org/1", b.BookURL)
}

func TestStaticProvider_SearchCaseInsensitive(t *testing.T) {
	p := loadSample(t)
	results, err := p.Search(context.Background(), "HARRY", "동탄")
	require.NoError(t, err)
	assert.Len(t, results[0].Booklist, 1)
}

func TestStaticProvider_SearchAll(t *testing.T) {
	p := loadSample(t)
	results, err := p.Search(context.Background(), "없는책", "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotNil(t, r.Booklist)
		assert.Empty(t, r.Booklist)
	}
}

func TestStaticProvider_UnknownLibrary(t *testing.T) {
	p := loadSample(t)
	_, err := p.Search(context.Background(), "x", "성남")
	assert.ErrorIs(t, err, domain.ErrLibraryNotFound)
}

func TestStaticProvider_Cancelled(t *testing.T) {
	p := loadSample(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Search(ctx, "x", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("libraries: [oops"))
	assert.Error(t, err)
}
