package web

import (
	"log"
	"net/http"

	_ "github.com/kln-se/uml-diagrams/internal/docs"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/auth"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/diagram"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/health"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/sharings"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/user"
	httpSwagger "github.com/swaggo/http-swagger"
)

func newRouter(
	hh *health.Handler,
	lh *auth.HandlerLogin,
	oh *auth.HandlerLogout,
	uh *user.Handler,
	dh *diagram.Handler,
	sh *sharings.Handler,
	authMW mw.AuthDeps,
	logger *log.Logger,
) http.Handler {
	mux := http.NewServeMux()

	private := func(h http.HandlerFunc) http.Handler {
		return mw.RequireAuth(authMW, h)
	}
	optional := func(h http.HandlerFunc) http.Handler {
		return mw.OptionalAuth(authMW, h)
	}

	// health
	mux.HandleFunc("GET /api/v1/health", hh.Liveness)
	mux.HandleFunc("GET /api/v1/health/ready", hh.Readiness)

	// users / auth
	mux.HandleFunc("POST /api/v1/users/signup", uh.Signup)
	mux.Handle("GET /api/v1/users/me", private(uh.Me))
	mux.Handle("PUT /api/v1/users/me", private(uh.UpdateMe))
	mux.Handle("PATCH /api/v1/users/me", private(uh.UpdateMe))
	mux.HandleFunc("POST /api/v1/auth/login", lh.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", oh.Logout)

	// diagrams (владелец)
	mux.Handle("GET /api/v1/diagrams", private(dh.List))
	mux.Handle("POST /api/v1/diagrams", private(limitBody(8<<20, dh.Create)))
	mux.Handle("GET /api/v1/diagrams/{id}", private(dh.GetOne))
	mux.Handle("PUT /api/v1/diagrams/{id}", private(limitBody(8<<20, dh.Update)))
	mux.Handle("PATCH /api/v1/diagrams/{id}", private(limitBody(8<<20, dh.Update)))
	mux.Handle("DELETE /api/v1/diagrams/{id}", private(dh.Delete))
	mux.Handle("POST /api/v1/diagrams/{id}/copy", private(dh.Copy))

	// шаринг со стороны владельца
	mux.Handle("POST /api/v1/diagrams/{id}/share-invite-user", private(dh.ShareInviteUser))
	mux.Handle("DELETE /api/v1/diagrams/{id}/share-unshare-all", private(dh.ShareUnshareAll))
	mux.Handle("POST /api/v1/diagrams/{id}/share-set-public", private(dh.ShareSetPublic))
	mux.Handle("POST /api/v1/diagrams/{id}/share-set-private", private(dh.ShareSetPrivate))

	// расшаренное мне
	mux.Handle("GET /api/v1/diagrams/shared-with-me", private(dh.SharedList))
	mux.Handle("GET /api/v1/diagrams/shared-with-me/{id}", private(dh.SharedGet))
	mux.Handle("POST /api/v1/diagrams/shared-with-me/{id}/copy", private(dh.SharedCopy))
	mux.Handle("PATCH /api/v1/diagrams/shared-with-me/{id}/save", private(limitBody(8<<20, dh.SharedSave)))
	mux.Handle("DELETE /api/v1/diagrams/shared-with-me/{id}/unshare-me", private(dh.UnshareMe))

	// публичный доступ без аутентификации
	mux.HandleFunc("GET /api/v1/diagrams/public/{id}", dh.PublicGet)

	// превью (отдельный префикс, чтобы не пересекаться с wildcard-роутами diagrams)
	mux.Handle("PUT /api/v1/thumbnails/{id}", private(limitBody(5<<20, dh.ThumbnailPut)))
	mux.Handle("GET /api/v1/thumbnails/{id}", optional(dh.ThumbnailGet))

	// записи шаринга (вьюсет владельца/админа)
	mux.Handle("GET /api/v1/sharings", private(sh.List))
	mux.Handle("GET /api/v1/sharings/{id}", private(sh.GetOne))
	mux.Handle("PATCH /api/v1/sharings/{id}", private(sh.Update))
	mux.Handle("DELETE /api/v1/sharings/{id}", private(sh.Delete))

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(mux))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
