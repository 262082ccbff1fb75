package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

type AuthDeps struct {
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}

const unauthorizedBody = `{"detail":"Authentication credentials were not provided or are invalid."}`

// OptionalAuth кладёт актора в контекст, если токен валиден;
// без токена или с невалидным — запрос идёт как анонимный.
func OptionalAuth(deps AuthDeps, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r.Header.Get("Authorization"))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := deps.Tokens.Parse(r.Context(), raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if revoked, _ := deps.Blacklist.IsRevoked(r.Context(), claims.JTI); revoked {
			next.ServeHTTP(w, r)
			return
		}
		a := domain.Actor{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(domain.WithActor(r.Context(), a)))
	})
}

func RequireAuth(deps AuthDeps, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r.Header.Get("Authorization"))
		if raw == "" {
			writeUnauthorized(w)
			return
		}
		claims, err := deps.Tokens.Parse(r.Context(), raw)
		if err != nil {
			writeUnauthorized(w)
			return
		}
		if revoked, _ := deps.Blacklist.IsRevoked(r.Context(), claims.JTI); revoked {
			writeUnauthorized(w)
			return
		}
		a := domain.Actor{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(domain.WithActor(r.Context(), a)))
	})
}

func ActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	return domain.ActorFromCtx(ctx)
}

// TokenFromRequest — сырой bearer-токен запроса (нужен на logout).
func TokenFromRequest(r *http.Request) string {
	return extractBearer(r.Header.Get("Authorization"))
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}

func extractBearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
