package library

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/dlserver/internal/adapter"
	"github.com/mmcdole/dlserver/internal/domain"
)

type stubClient struct {
	names []string
	err   error
	calls int
}

func (c *stubClient) Search(ctx context.Context, title, libraryName string) ([]domain.LibraryResult, error) {
	return nil, nil
}

func (c *stubClient) LibraryNames(ctx context.Context) ([]string, error) {
	c.calls++
	return c.names, c.err
}

func TestService_FetchLibrariesSorted(t *testing.T) {
	client := &stubClient{names: []string{"판교", "Dongtan", "동탄", "alpha", "Beta"}}
	svc := NewService(client, adapter.NullLogger())

	libs := svc.FetchLibraries(context.Background())
	require.Len(t, libs, 5)
	assert.Equal(t, 1, client.calls)

	assert.Equal(t, []string{"alpha", "Beta", "Dongtan", "동탄", "판교"}, Names(libs))
	assert.Equal(t, 3, libs[0].ID, "ids are positions in the directory response")
	assert.Equal(t, 0, libs[4].ID)
}

func TestService_FetchLibrariesFailureIsEmpty(t *testing.T) {
	svc := NewService(&stubClient{err: errors.New("boom")}, adapter.NullLogger())

	libs := svc.FetchLibraries(context.Background())
	assert.NotNil(t, libs)
	assert.Empty(t, libs)
}

func TestSortByName_Stable(t *testing.T) {
	libs := []domain.Library{{ID: 0, Name: "abc"}, {ID: 1, Name: "ABC"}, {ID: 2, Name: "Abc"}}
	SortByName(libs)
	assert.Equal(t, []int{0, 1, 2}, []int{libs[0].ID, libs[1].ID, libs[2].ID})
}
