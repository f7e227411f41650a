package web

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

// flashSessionName はトースト通知を保持するCookieの名前。
const flashSessionName = "fwf_flash"

// トーストの種類
const (
	ToastDefault     = "default"
	ToastDestructive = "destructive"
)

// Toast はリダイレクトをまたいで表示する通知メッセージ。
type Toast struct {
	Title       string
	Description string
	Variant     string
}

func init() {
	gob.Register(Toast{})
}

// FlashStore はgorilla/sessionsの署名付きCookieでトーストを受け渡す。
type FlashStore struct {
	store *sessions.CookieStore
}

// NewFlashStore はFlashStoreを生成する。
// secretはSHA-256でハッシュ化して32バイトの署名鍵にする。
func NewFlashStore(secret string, secure bool, domain string) *FlashStore {
	key := sha256.Sum256([]byte(secret))
	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &FlashStore{store: store}
}

// Add はトーストを追加する。レスポンスヘッダー書き込み前に呼び出すこと。
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, t Toast) error {
	session, err := f.store.Get(r, flashSessionName)
	if err != nil && session == nil {
		return err
	}
	if t.Variant == "" {
		t.Variant = ToastDefault
	}
	session.AddFlash(t)
	return session.Save(r, w)
}

// Pop は保留中のトーストを取り出して削除する。
// Cookieが改ざんされている場合は空として扱い、Cookieを破棄する。
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) []Toast {
	session, err := f.store.Get(r, flashSessionName)
	if err != nil {
		f.expire(w)
		return nil
	}
	if session == nil {
		return nil
	}
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	_ = session.Save(r, w)

	toasts := make([]Toast, 0, len(flashes))
	for _, v := range flashes {
		if t, ok := v.(Toast); ok {
			toasts = append(toasts, t)
		}
	}
	return toasts
}

// expire は検証できないトーストCookieを削除する。
func (f *FlashStore) expire(w http.ResponseWriter) {
	opts := *f.store.Options
	opts.MaxAge = -1
	http.SetCookie(w, sessions.NewCookie(flashSessionName, "", &opts))
}
