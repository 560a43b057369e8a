package imagesearch

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHit struct {
	id       int64
	tags     string
	preview  string
	large    string
	views    int
	username string
}

func (h testHit) HitID() int64          { return h.id }
func (h testHit) HitTags() string       { return h.tags }
func (h testHit) WebformatURL() string  { return h.preview }
func (h testHit) LargeImageURL() string { return h.large }

func makeHits(offset, n int) []Hit {
	hits := make([]Hit, n)
	for i := range hits {
		id := int64(offset + i + 1)
		hits[i] = testHit{
			id:       id,
			tags:     fmt.Sprintf("tag%d", id),
			preview:  fmt.Sprintf("https://cdn.example/%d_640.jpg", id),
			large:    fmt.Sprintf("https://cdn.example/%d_1280.jpg", id),
			views:    100,
			username: "someone",
		}
	}
	return hits
}

func TestStateSubmitResets(t *testing.T) {
	var s State
	req, err := s.Submit("cats")
	require.NoError(t, err)
	s.Begin(req)
	s.Apply(req, Response{Hits: makeHits(0, 5), TotalHits: 30})
	next, err := s.NextPage()
	require.NoError(t, err)
	s.Begin(next)
	s.Apply(next, Response{Hits: makeHits(5, 5), TotalHits: 30})
	require.Len(t, s.Results, 10)
	require.Equal(t, 2, s.Page)

	req, err = s.Submit("dogs")
	require.NoError(t, err)

	assert.Equal(t, "dogs", s.Query)
	assert.Equal(t, 1, s.Page)
	assert.Empty(t, s.Results)
	assert.Zero(t, s.TotalHits)
	assert.Equal(t, Request{Query: "dogs", Page: 1, Generation: 2}, req)
}

func TestStateSubmitTrimsAndRejectsEmpty(t *testing.T) {
	var s State

	_, err := s.Submit("   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Zero(t, s.Generation())

	req, err := s.Submit("  cats ")
	require.NoError(t, err)
	assert.Equal(t, "cats", req.Query)
}

func TestStateSubmitDuplicateKeepsState(t *testing.T) {
	var s State
	req, err := s.Submit("cats")
	require.NoError(t, err)
	s.Begin(req)
	s.Apply(req, Response{Hits: makeHits(0, 5), TotalHits: 30})

	before := s.Snapshot()
	_, err = s.Submit("cats")
	assert.ErrorIs(t, err, ErrDuplicateQuery)

	if diff := cmp.Diff(before.View(), s.View()); diff != "" {
		t.Errorf("state changed on duplicate submit (-want +got):\n%s", diff)
	}
	assert.Equal(t, before.Generation(), s.Generation())
}

func TestStateNextPage(t *testing.T) {
	var s State

	_, err := s.NextPage()
	assert.ErrorIs(t, err, ErrNoQuery)
	assert.Zero(t, s.Page)

	_, err = s.Submit("cats")
	require.NoError(t, err)

	for want := 2; want <= 5; want++ {
		req, err := s.NextPage()
		require.NoError(t, err)
		assert.Equal(t, want, s.Page)
		assert.Equal(t, want, req.Page)
	}
}

func TestStateApplyProjectsAndAppends(t *testing.T) {
	var s State
	req, _ := s.Submit("cats")
	s.Begin(req)
	assert.True(t, s.Loading)

	outcome := s.Apply(req, Response{Hits: makeHits(0, 3), TotalHits: 3})
	assert.Equal(t, OutcomeLoaded, outcome)
	assert.False(t, s.Loading)
	assert.Equal(t, 3, s.TotalHits)

	want := []ImageSummary{
		{ID: 1, Tags: "tag1", ThumbnailURL: "https://cdn.example/1_640.jpg", FullURL: "https://cdn.example/1_1280.jpg"},
		{ID: 2, Tags: "tag2", ThumbnailURL: "https://cdn.example/2_640.jpg", FullURL: "https://cdn.example/2_1280.jpg"},
		{ID: 3, Tags: "tag3", ThumbnailURL: "https://cdn.example/3_640.jpg", FullURL: "https://cdn.example/3_1280.jpg"},
	}
	assert.Equal(t, want, s.Results)
}

func TestStateApplyEmpty(t *testing.T) {
	var s State
	req, _ := s.Submit("xyzzy123")
	s.Begin(req)

	outcome := s.Apply(req, Response{TotalHits: 0})
	assert.Equal(t, OutcomeEmpty, outcome)
	assert.Empty(t, s.Results)
	assert.Zero(t, s.TotalHits)
	assert.False(t, s.Loading)
	assert.False(t, s.ShowLoadMore())
}

func TestStateApplyStale(t *testing.T) {
	var s State
	old, _ := s.Submit("cats")
	s.Begin(old)

	current, _ := s.Submit("dogs")
	s.Begin(current)

	assert.Equal(t, OutcomeStale, s.Apply(old, Response{Hits: makeHits(0, 5), TotalHits: 30}))
	assert.Empty(t, s.Results)
	assert.True(t, s.Loading, "request for dogs is still in flight")

	assert.Equal(t, OutcomeLoaded, s.Apply(current, Response{Hits: makeHits(100, 2), TotalHits: 2}))
	assert.Len(t, s.Results, 2)
	assert.False(t, s.Loading)
}

func TestStateFail(t *testing.T) {
	var s State
	req, _ := s.Submit("cats")
	s.Begin(req)

	assert.True(t, s.Fail(req))
	assert.False(t, s.Loading)
	assert.Empty(t, s.Results)

	stale := req
	_, _ = s.Submit("dogs")
	assert.False(t, s.Fail(stale))
}

func TestStateShowLoadMore(t *testing.T) {
	tests := []struct {
		name      string
		results   int
		totalHits int
		loading   bool
		want      bool
	}{
		{name: "nothing loaded", results: 0, totalHits: 0, want: false},
		{name: "more available", results: 5, totalHits: 30, want: true},
		{name: "all loaded", results: 30, totalHits: 30, want: false},
		{name: "loading", results: 5, totalHits: 30, loading: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{
				Results:   make([]ImageSummary, tt.results),
				TotalHits: tt.totalHits,
				Loading:   tt.loading,
			}
			assert.Equal(t, tt.want, s.ShowLoadMore())
		})
	}
}

func TestStateSelectClose(t *testing.T) {
	var s State
	s.Select("https://cdn.example/1_1280.jpg")
	s.Select("https://cdn.example/1_1280.jpg")
	assert.Equal(t, "https://cdn.example/1_1280.jpg", s.SelectedImage)
	assert.True(t, s.HasSelection())

	s.Close()
	assert.Empty(t, s.SelectedImage)
	assert.False(t, s.HasSelection())
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	var s State
	req, _ := s.Submit("cats")
	s.Begin(req)
	s.Apply(req, Response{Hits: makeHits(0, 2), TotalHits: 10})

	snapshot := s.Snapshot()
	snapshot.Results[0].Tags = "changed"

	assert.Equal(t, "tag1", s.Results[0].Tags)
}

type linkedHit struct {
	testHit
	page string
}

func (h linkedHit) PageURL() string { return h.page }

func TestProjectPageURL(t *testing.T) {
	plain := Project(makeHits(0, 1)[0])
	assert.Empty(t, plain.PageURL)

	linked := Project(linkedHit{
		testHit: testHit{id: 7, tags: "tag7", preview: "p", large: "l"},
		page:    "https://pixabay.com/en/tag7-7/",
	})
	assert.Equal(t, ImageSummary{
		ID:           7,
		Tags:         "tag7",
		ThumbnailURL: "p",
		FullURL:      "l",
		PageURL:      "https://pixabay.com/en/tag7-7/",
	}, linked)
}
