package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"newsportal/app/config"
	"newsportal/app/state"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/blake2b"
)

// SessionSigner signs session ids with a keyed BLAKE2b MAC so a client
// cannot pick another browser's session.
type SessionSigner struct {
	key []byte
}

// NewSessionSigner derives the MAC key from secret. An empty secret gets a
// random key, so sessions do not survive a restart.
func NewSessionSigner(secret string) (*SessionSigner, error) {
	if secret == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		return &SessionSigner{key: key}, nil
	}
	sum := blake2b.Sum256([]byte(secret))
	return &SessionSigner{key: sum[:]}, nil
}

func (s *SessionSigner) Sign(id string) string {
	mac, _ := blake2b.New256(s.key)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

// Verify returns the session id carried by a signed value.
func (s *SessionSigner) Verify(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	expected := s.Sign(id)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(id+"."+sig)) != 1 {
		return "", false
	}
	return id, true
}

// Session attaches a session id to every request, issuing a new signed
// cookie when the browser has none or presents a forged one.
func Session(cfg config.Session, signer *SessionSigner, log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				if verified, ok := signer.Verify(c.Value); ok {
					id = verified
				} else {
					log.Debug("Rejected session cookie", slog.String("path", r.URL.Path))
				}
			}

			if id == "" {
				id = uuid.NewString()
				cookie := &http.Cookie{
					Name:     cfg.CookieName,
					Value:    signer.Sign(id),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				}
				if cfg.TTL > 0 {
					cookie.MaxAge = int(cfg.TTL.Seconds())
				}
				http.SetCookie(w, cookie)
			}

			next.ServeHTTP(w, r.WithContext(state.WithSessionID(r.Context(), id)))
		})
	}
}
