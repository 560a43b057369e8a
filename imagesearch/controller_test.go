package imagesearch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	query string
	page  int
}

type fakeSearcher struct {
	mu        sync.Mutex
	calls     []call
	responses map[call]Response
	err       error
}

func (f *fakeSearcher) Search(_ context.Context, query string, page int) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{query: query, page: page})
	if f.err != nil {
		return Response{}, f.err
	}
	return f.responses[call{query: query, page: page}], nil
}

func (f *fakeSearcher) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]call, len(f.calls))
	copy(calls, f.calls)
	return calls
}

func TestControllerScenario(t *testing.T) {
	ctx := context.Background()
	searcher := &fakeSearcher{
		responses: map[call]Response{
			{query: "cats", page: 1}: {Hits: makeHits(0, 5), TotalHits: 30},
			{query: "cats", page: 2}: {Hits: makeHits(5, 5), TotalHits: 30},
			{query: "dogs", page: 1}: {Hits: makeHits(50, 5), TotalHits: 12},
		},
	}
	notices := &Recorder{}
	c := NewController(searcher, notices)

	require.NoError(t, c.Submit(ctx, "cats"))
	view := c.View()
	assert.Len(t, view.Hits, 5)
	assert.True(t, view.ShowLoadMore)
	assert.False(t, view.Loading)

	require.NoError(t, c.RequestNextPage(ctx))
	assert.Len(t, c.View().Hits, 10)
	assert.Equal(t, int64(10), c.View().Hits[9].ID)

	err := c.Submit(ctx, "cats")
	assert.ErrorIs(t, err, ErrDuplicateQuery)
	assert.Len(t, c.View().Hits, 10)
	assert.Equal(t, 1, notices.Count(NoticeDuplicateQuery))
	assert.Len(t, searcher.Calls(), 2, "duplicate query must not be fetched")

	var loadingState State
	c.onLoading = func(context.Context, Request) {
		loadingState = c.State()
	}
	require.NoError(t, c.Submit(ctx, "dogs"))
	assert.Equal(t, "dogs", loadingState.Query)
	assert.Equal(t, 1, loadingState.Page)
	assert.Empty(t, loadingState.Results)
	assert.Zero(t, loadingState.TotalHits)
	assert.True(t, loadingState.Loading)

	state := c.State()
	assert.Equal(t, 1, state.Page)
	assert.Len(t, state.Results, 5)
	assert.Equal(t, 12, state.TotalHits)
	assert.Equal(t, []call{
		{query: "cats", page: 1},
		{query: "cats", page: 2},
		{query: "dogs", page: 1},
	}, searcher.Calls())
}

func TestControllerNothingFound(t *testing.T) {
	searcher := &fakeSearcher{
		responses: map[call]Response{
			{query: "xyzzy123", page: 1}: {Hits: []Hit{}, TotalHits: 0},
		},
	}
	notices := &Recorder{}
	c := NewController(searcher, notices)

	require.NoError(t, c.Submit(context.Background(), "xyzzy123"))

	view := c.View()
	assert.Empty(t, view.Hits)
	assert.False(t, view.ShowLoadMore)
	assert.False(t, view.Loading)
	require.Len(t, notices.Notices(), 1)
	assert.Equal(t, Notice{Kind: NoticeNothingFound, Query: "xyzzy123", Page: 1}, notices.Notices()[0])
}

func TestControllerFailure(t *testing.T) {
	errBoom := errors.New("connection reset")
	searcher := &fakeSearcher{err: errBoom}
	notices := &Recorder{}
	c := NewController(searcher, notices)

	err := c.Submit(context.Background(), "cats")
	require.ErrorIs(t, err, errBoom)

	state := c.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Results)
	assert.Zero(t, state.TotalHits)

	require.Equal(t, 1, notices.Count(NoticeFailure))
	assert.ErrorIs(t, notices.Notices()[0].Err, errBoom)
}

func TestControllerNextPageWithoutQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	c := NewController(searcher, &Recorder{})

	err := c.RequestNextPage(context.Background())
	assert.ErrorIs(t, err, ErrNoQuery)
	assert.Empty(t, searcher.Calls())
	assert.Zero(t, c.State().Page)
}

func TestControllerEmptyQueryDoesNotFetch(t *testing.T) {
	searcher := &fakeSearcher{}
	notices := &Recorder{}
	c := NewController(searcher, notices)

	assert.ErrorIs(t, c.Submit(context.Background(), ""), ErrEmptyQuery)
	assert.Empty(t, searcher.Calls())
	assert.Empty(t, notices.Notices())
}

func TestControllerOneFetchPerNextPage(t *testing.T) {
	searcher := &fakeSearcher{responses: map[call]Response{}}
	for page := 1; page <= 4; page++ {
		searcher.responses[call{query: "cats", page: page}] = Response{Hits: makeHits((page-1)*3, 3), TotalHits: 12}
	}
	c := NewController(searcher, &Recorder{})

	require.NoError(t, c.Submit(context.Background(), "cats"))
	for i := 0; i < 3; i++ {
		require.NoError(t, c.RequestNextPage(context.Background()))
	}

	assert.Len(t, searcher.Calls(), 4)
	view := c.View()
	assert.Len(t, view.Hits, 12)
	assert.False(t, view.ShowLoadMore)
}

func TestControllerDiscardsStaleResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	searcher := SearcherFunc(func(_ context.Context, query string, _ int) (Response, error) {
		if query == "cats" {
			close(started)
			<-release
			return Response{Hits: makeHits(0, 5), TotalHits: 30}, nil
		}
		return Response{Hits: makeHits(100, 2), TotalHits: 2}, nil
	})
	notices := &Recorder{}
	c := NewController(searcher, notices)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.Submit(context.Background(), "cats"))
	}()

	<-started
	require.NoError(t, c.Submit(context.Background(), "dogs"))
	assert.True(t, c.State().Loading, "cats is still in flight")

	close(release)
	wg.Wait()

	state := c.State()
	assert.Equal(t, "dogs", state.Query)
	require.Len(t, state.Results, 2)
	assert.Equal(t, int64(101), state.Results[0].ID)
	assert.Equal(t, 2, state.TotalHits)
	assert.False(t, state.Loading)
	assert.Empty(t, notices.Notices())
}

func TestControllerStaleFailureIsSilent(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	searcher := SearcherFunc(func(_ context.Context, query string, _ int) (Response, error) {
		if query == "cats" {
			close(started)
			<-release
			return Response{}, errors.New("timeout")
		}
		return Response{Hits: makeHits(0, 1), TotalHits: 1}, nil
	})
	notices := &Recorder{}
	c := NewController(searcher, notices)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.Submit(context.Background(), "cats"))
	}()

	<-started
	require.NoError(t, c.Submit(context.Background(), "dogs"))
	close(release)
	wg.Wait()

	assert.Zero(t, notices.Count(NoticeFailure))
	assert.Len(t, c.State().Results, 1)
}

func TestControllerSelectClose(t *testing.T) {
	c := NewController(&fakeSearcher{}, &Recorder{})

	c.SelectImage("https://cdn.example/1_1280.jpg")
	c.SelectImage("https://cdn.example/1_1280.jpg")
	view := c.View()
	assert.True(t, view.HasSelection)
	assert.Equal(t, "https://cdn.example/1_1280.jpg", view.SelectedImage)

	c.CloseImage()
	view = c.View()
	assert.False(t, view.HasSelection)
	assert.Empty(t, view.SelectedImage)
}

func TestControllerGeneration(t *testing.T) {
	searcher := &fakeSearcher{responses: map[call]Response{}}
	c := NewController(searcher, &Recorder{})
	assert.Zero(t, c.Generation())

	_ = c.Submit(context.Background(), "cats")
	assert.Equal(t, uint64(1), c.Generation())

	_ = c.RequestNextPage(context.Background())
	assert.Equal(t, uint64(1), c.Generation())

	_ = c.Submit(context.Background(), "dogs")
	assert.Equal(t, uint64(2), c.Generation())
}

func TestControllerGenerationSource(t *testing.T) {
	searcher := &fakeSearcher{responses: map[call]Response{}}
	var next uint64 = 40
	source := func() uint64 {
		next++
		return next
	}
	first := NewController(searcher, &Recorder{}, WithGenerationSource(source))
	second := NewController(searcher, &Recorder{}, WithGenerationSource(source))

	_ = first.Submit(context.Background(), "cats")
	_ = second.Submit(context.Background(), "cats")
	_ = first.Submit(context.Background(), "dogs")

	assert.Equal(t, uint64(43), first.Generation())
	assert.Equal(t, uint64(42), second.Generation())
}

func TestControllerLoadedHook(t *testing.T) {
	searcher := &fakeSearcher{
		responses: map[call]Response{
			{query: "cats", page: 1}: {Hits: makeHits(0, 3), TotalHits: 6},
			{query: "cats", page: 2}: {Hits: makeHits(3, 3), TotalHits: 6},
		},
	}

	type loaded struct {
		req   Request
		added []ImageSummary
		view  View
	}
	var events []loaded
	c := NewController(searcher, &Recorder{}, WithLoadedHook(func(_ context.Context, req Request, added []ImageSummary, view View) {
		events = append(events, loaded{req: req, added: added, view: view})
	}))

	require.NoError(t, c.Submit(context.Background(), "cats"))
	require.NoError(t, c.RequestNextPage(context.Background()))

	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].req.Page)
	assert.Len(t, events[0].added, 3)
	assert.True(t, events[0].view.ShowLoadMore)

	assert.Equal(t, 2, events[1].req.Page)
	require.Len(t, events[1].added, 3)
	assert.Equal(t, int64(4), events[1].added[0].ID)
	assert.Len(t, events[1].view.Hits, 6)
	assert.False(t, events[1].view.ShowLoadMore)
}
