package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/dom/kick-danila/internal/api/flash"
)

type contextKey string

const (
	FlashKey contextKey = "flash"
)

// Flash pops the pending flash message and stores it in the request
// context for the page handler to render.
func Flash(store *flash.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			msg, err := store.Pop(w, r)
			if err != nil {
				log.Printf("ERROR [middleware.Flash] discarding flash cookie: %v", err)
			}
			if msg == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), FlashKey, msg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetFlash(ctx context.Context) (*flash.Message, bool) {
	msg, ok := ctx.Value(FlashKey).(*flash.Message)
	return msg, ok
}
