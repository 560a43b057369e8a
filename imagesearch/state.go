package imagesearch

import (
	"errors"
	"strings"
)

var (
	ErrEmptyQuery     = errors.New("query is empty")
	ErrDuplicateQuery = errors.New("query has already been submitted")
	ErrNoQuery        = errors.New("no query submitted yet")
)

type Outcome int

const (
	OutcomeLoaded Outcome = iota + 1
	OutcomeEmpty
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoaded:
		return "loaded"
	case OutcomeEmpty:
		return "empty"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

type (
	// Request identifies the fetch issued for one (query, page) pair.
	// Generation changes with every new query.
	Request struct {
		Query      string
		Page       int
		Generation uint64
	}

	// State of one search session. The zero value is the idle state
	// before any query was submitted.
	State struct {
		Query         string
		Page          int
		Results       []ImageSummary
		TotalHits     int
		Loading       bool
		SelectedImage string

		generation     uint64
		nextGeneration func() uint64
		inFlight       int
	}

	View struct {
		Query         string
		Page          int
		TotalHits     int
		Hits          []ImageSummary
		Loading       bool
		ShowLoadMore  bool
		SelectedImage string
		HasSelection  bool
	}
)

func (s *State) Generation() uint64 {
	return s.generation
}

// Submit resets the session for a new query and returns the request for
// its first page.
func (s *State) Submit(query string) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, ErrEmptyQuery
	}
	if query == s.Query {
		return Request{}, ErrDuplicateQuery
	}

	s.Query = query
	s.Results = nil
	s.Page = 1
	s.TotalHits = 0
	if s.nextGeneration != nil {
		s.generation = s.nextGeneration()
	} else {
		s.generation++
	}

	return s.request(), nil
}

func (s *State) NextPage() (Request, error) {
	if s.Query == "" {
		return Request{}, ErrNoQuery
	}
	s.Page++
	return s.request(), nil
}

func (s *State) request() Request {
	return Request{
		Query:      s.Query,
		Page:       s.Page,
		Generation: s.generation,
	}
}

// IsCurrent reports whether a response for req still belongs to the
// session's current query.
func (s *State) IsCurrent(req Request) bool {
	return req.Generation == s.generation && req.Query == s.Query
}

func (s *State) Begin(Request) {
	s.inFlight++
	s.Loading = true
}

func (s *State) settle() {
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.Loading = s.inFlight > 0
}

// Apply merges a successful response into the session.
func (s *State) Apply(req Request, resp Response) Outcome {
	s.settle()

	if !s.IsCurrent(req) {
		return OutcomeStale
	}

	if resp.TotalHits == 0 {
		return OutcomeEmpty
	}

	s.Results = append(s.Results, ProjectAll(resp.Hits)...)
	s.TotalHits = resp.TotalHits
	return OutcomeLoaded
}

// Fail settles a failed request. It returns false if the request was
// stale anyway.
func (s *State) Fail(req Request) bool {
	s.settle()
	return s.IsCurrent(req)
}

func (s *State) Select(url string) {
	s.SelectedImage = url
}

func (s *State) Close() {
	s.SelectedImage = ""
}

func (s *State) HasSelection() bool {
	return s.SelectedImage != ""
}

func (s *State) ShowLoadMore() bool {
	return s.TotalHits > 0 && len(s.Results) != s.TotalHits && !s.Loading
}

// Snapshot returns a copy that shares no memory with s.
func (s *State) Snapshot() State {
	snapshot := *s
	if s.Results != nil {
		snapshot.Results = make([]ImageSummary, len(s.Results))
		copy(snapshot.Results, s.Results)
	}
	return snapshot
}

func (s *State) View() View {
	snapshot := s.Snapshot()
	return View{
		Query:         snapshot.Query,
		Page:          snapshot.Page,
		TotalHits:     snapshot.TotalHits,
		Hits:          snapshot.Results,
		Loading:       snapshot.Loading,
		ShowLoadMore:  snapshot.ShowLoadMore(),
		SelectedImage: snapshot.SelectedImage,
		HasSelection:  snapshot.HasSelection(),
	}
}
