package imagesearch

import (
	"context"
	"sync"
)

type NoticeKind int

const (
	NoticeDuplicateQuery NoticeKind = iota + 1
	NoticeNothingFound
	NoticeFailure
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeDuplicateQuery:
		return "duplicate_query"
	case NoticeNothingFound:
		return "nothing_found"
	case NoticeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

type (
	// Notice is a non-blocking, user-visible message. Wording is up to the
	// Notifier.
	Notice struct {
		Kind  NoticeKind
		Query string
		Page  int
		Err   error // only set for NoticeFailure
	}

	Notifier interface {
		Notify(ctx context.Context, notice Notice)
	}

	NotifierFunc func(ctx context.Context, notice Notice)

	// Recorder keeps every notice in memory.
	Recorder struct {
		mu      sync.Mutex
		notices []Notice
	}
)

func (f NotifierFunc) Notify(ctx context.Context, notice Notice) {
	f(ctx, notice)
}

func (r *Recorder) Notify(_ context.Context, notice Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	notices := make([]Notice, len(r.notices))
	copy(notices, r.notices)
	return notices
}

func (r *Recorder) Count(kind NoticeKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, notice := range r.notices {
		if notice.Kind == kind {
			n++
		}
	}
	return n
}
