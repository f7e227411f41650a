package auth

import (
	"sync"
	"time"

	"github.com/hitoshi/foodwaste/internal/model"
)

// EventType は認証状態の変化の種類を表す。
type EventType string

const (
	EventSignedUp        EventType = "signed_up"
	EventSignedIn        EventType = "signed_in"
	EventSignedOut       EventType = "signed_out"
	EventPasswordUpdated EventType = "password_updated"
	EventSessionExpired  EventType = "session_expired"
)

// Event は認証状態の変化を表す。
type Event struct {
	Type   EventType
	UserID string
	Role   model.Role
	At     time.Time
}

// Listener は認証状態の変化を受け取る関数。
type Listener func(Event)

// Notifier は認証状態の変化を購読者へ通知する。
// プロセス全体で1つのインスタンスを共有する。
type Notifier struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

// NewNotifier はNotifierを生成する。
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]Listener)}
}

// Subscribe はリスナーを登録し、登録解除用の関数を返す。
// 登録解除関数は複数回呼び出しても安全。
func (n *Notifier) Subscribe(fn Listener) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

// Publish はイベントを全リスナーへ同期的に通知する。
func (n *Notifier) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	n.mu.RLock()
	listeners := make([]Listener, 0, len(n.listeners))
	for _, fn := range n.listeners {
		listeners = append(listeners, fn)
	}
	n.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Len は登録中のリスナー数を返す。
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
