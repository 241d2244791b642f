package bot

import "sync"

// Admin multi-step flows carry their scratch state in explicit per-chat
// sessions instead of process-wide maps keyed by field name.
type sessionKind int

const (
	sessionRecording sessionKind = iota + 1
	sessionAwaitBroadcast
	sessionAwaitEnding
	sessionAwaitStarting
)

type adminSession struct {
	kind sessionKind

	// recording
	bundleID   int64
	bundleCode string
	itemCount  int

	// ending capture
	endingName string
}

type sessionStore struct {
	mu     sync.Mutex
	byChat map[int64]*adminSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{byChat: make(map[int64]*adminSession)}
}

func (s *sessionStore) get(chatID int64) (*adminSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byChat[chatID]
	return session, ok
}

func (s *sessionStore) set(chatID int64, session *adminSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byChat[chatID] = session
}

func (s *sessionStore) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byChat, chatID)
}

// User flows that wait for a follow-up message.
type userStateKind int

const (
	stateAwaitScreenshot userStateKind = iota + 1
	stateAwaitRequest
)

type userState struct {
	kind   userStateKind
	planID string
}

type userStateStore struct {
	mu     sync.Mutex
	byChat map[int64]*userState
}

func newUserStateStore() *userStateStore {
	return &userStateStore{byChat: make(map[int64]*userState)}
}

func (s *userStateStore) get(chatID int64) (*userState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.byChat[chatID]
	return state, ok
}

func (s *userStateStore) set(chatID int64, state *userState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byChat[chatID] = state
}

func (s *userStateStore) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byChat, chatID)
}
