package pixabay

import (
	"sync"
	"time"

	"github.com/Brawl345/pixabot/imagesearch"
)

type (
	// session is the search state of one chat.
	session struct {
		controller *imagesearch.Controller

		mu               sync.Mutex
		lastUsed         time.Time
		overlayMessageID int64
	}

	sessions struct {
		mu     sync.Mutex
		items  map[int64]*session
		create func(chatID int64) *imagesearch.Controller
		now    func() time.Time
	}
)

func newSessions(create func(chatID int64) *imagesearch.Controller) *sessions {
	return &sessions{
		items:  make(map[int64]*session),
		create: create,
		now:    time.Now,
	}
}

// get returns the session of the chat, creating it if needed.
func (s *sessions) get(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[chatID]
	if !ok {
		sess = &session{controller: s.create(chatID)}
		s.items[chatID] = sess
	}
	sess.touch(s.now())
	return sess
}

func (s *sessions) lookup(chatID int64) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[chatID]
	if ok {
		sess.touch(s.now())
	}
	return sess, ok
}

// evict removes sessions idle for longer than idle. Sessions with a
// request in flight are kept.
func (s *sessions) evict(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int
	for chatID, sess := range s.items {
		if now.Sub(sess.lastUsedAt()) <= idle {
			continue
		}
		if sess.controller.State().Loading {
			continue
		}
		delete(s.items, chatID)
		n++
	}
	return n
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (sess *session) touch(t time.Time) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = t
}

func (sess *session) lastUsedAt() time.Time {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.lastUsed
}

// swapOverlay remembers the message showing the selected image and returns
// the one it replaces.
func (sess *session) swapOverlay(messageID int64) int64 {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	previous := sess.overlayMessageID
	sess.overlayMessageID = messageID
	return previous
}

// clearOverlay forgets the overlay if messageID is the current one.
func (sess *session) clearOverlay(messageID int64) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.overlayMessageID != messageID {
		return false
	}
	sess.overlayMessageID = 0
	return true
}
