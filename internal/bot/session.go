package bot

import "sync"

// Stage этап диалога с пользователем.
type Stage int

const (
	StageNone Stage = iota
	StageLoginUsername
	StageLoginPassword
	StageAddName
	StageAddPrice
	StageAddCurrency
	StageAddCycle
	StageAddDate
)

// Draft черновик подписки, заполняемый по шагам диалога.
type Draft struct {
	Name            string
	Price           string
	Currency        string
	BillingCycle    string
	NextPaymentDate string
}

// Session состояние диалога одного чата: этап, токен сессии и черновик.
type Session struct {
	Stage    Stage
	Username string
	Token    string
	Draft    Draft
}

// Sessions потокобезопасное хранилище сессий, ключ - идентификатор чата.
type Sessions struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessions создает пустое хранилище сессий.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[int64]*Session)}
}

// Get возвращает сессию чата, создавая её при первом обращении.
func (s *Sessions) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[chatID]
	if !ok {
		session = &Session{}
		s.sessions[chatID] = session
	}
	return session
}

// Reset сбрасывает этап диалога и черновик, сохраняя токен сессии.
func (s *Sessions) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[chatID]; ok {
		session.Stage = StageNone
		session.Draft = Draft{}
	}
}

// Drop удаляет сессию чата целиком.
func (s *Sessions) Drop(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
