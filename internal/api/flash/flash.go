// Package flash carries one-shot user-facing messages across a redirect in
// a signed cookie.
package flash

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "kick_flash"
	maxAge     = 5 * time.Minute
)

type Category string

const (
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
)

type Message struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

func Success(text string) Message {
	return Message{Category: CategorySuccess, Text: text}
}

func Error(text string) Message {
	return Message{Category: CategoryError, Text: text}
}

type claims struct {
	Category Category `json:"cat"`
	Text     string   `json:"msg"`
	jwt.RegisteredClaims
}

type Store struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// NewStore signs flash cookies with secret. secure marks cookies
// HTTPS-only.
func NewStore(secret string, secure bool) *Store {
	return &Store{
		secret: []byte(secret),
		secure: secure,
		now:    time.Now,
	}
}

// Set attaches msg to the response. It must be called before the header
// is written.
func (s *Store) Set(w http.ResponseWriter, msg Message) error {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Category: msg.Category,
		Text:     msg.Text,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending message, if any, and clears the cookie so the
// message is shown once. Tampered or expired cookies are discarded.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) (*Message, error) {
	cookie, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	var c claims
	_, err = jwt.ParseWithClaims(cookie.Value, &c, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	return &Message{Category: c.Category, Text: c.Text}, nil
}
