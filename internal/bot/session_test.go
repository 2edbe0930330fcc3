package bot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessions_IsolatedPerChat(t *testing.T) {
	sessions := NewSessions()

	first := sessions.Get(100)
	first.Stage = StageAddPrice
	first.Token = "token-100"
	first.Draft.Name = "Netflix"

	second := sessions.Get(200)
	assert.Equal(t, StageNone, second.Stage)
	assert.Empty(t, second.Token)
	assert.Empty(t, second.Draft.Name)

	// Сессия первого чата не затронута вторым обращением.
	assert.Equal(t, StageAddPrice, sessions.Get(100).Stage)
	assert.Equal(t, "Netflix", sessions.Get(100).Draft.Name)
}

func TestSessions_GetReturnsSameSession(t *testing.T) {
	sessions := NewSessions()

	first := sessions.Get(42)
	first.Stage = StageLoginPassword

	again := sessions.Get(42)
	assert.Same(t, first, again)
	assert.Equal(t, StageLoginPassword, again.Stage)
}

func TestSessions_ResetKeepsToken(t *testing.T) {
	sessions := NewSessions()

	session := sessions.Get(42)
	session.Stage = StageAddDate
	session.Token = "jwt-token"
	session.Draft = Draft{Name: "Netflix", Price: "15.99"}

	sessions.Reset(42)

	session = sessions.Get(42)
	assert.Equal(t, StageNone, session.Stage)
	assert.Equal(t, Draft{}, session.Draft)
	assert.Equal(t, "jwt-token", session.Token)
}

func TestSessions_Drop(t *testing.T) {
	sessions := NewSessions()

	session := sessions.Get(42)
	session.Token = "jwt-token"

	sessions.Drop(42)

	assert.Empty(t, sessions.Get(42).Token)
}

func TestSessions_ConcurrentAccess(t *testing.T) {
	sessions := NewSessions()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			s := sessions.Get(chatID)
			s.Stage = StageAddName
			sessions.Reset(chatID)
		}(int64(i % 5))
	}
	wg.Wait()

	for i := range int64(5) {
		assert.Equal(t, StageNone, sessions.Get(i).Stage)
	}
}
