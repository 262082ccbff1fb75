package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/kln-se/uml-diagrams/internal/config"
	"github.com/kln-se/uml-diagrams/internal/diagrams"
	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/sharing"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/auth"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/diagram"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/health"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/sharings"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/user"
	"github.com/kln-se/uml-diagrams/internal/users"
)

// TTL кэша публичных диаграмм
const publicDiagramTTL = 300 // секунд

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, rep Repos, ad AuthDeps, db health.Pinger, bs domain.BlobStorage, cache domain.Cache) *Server {
	sub := func(name string) *log.Logger {
		return log.New(logger.Writer(), logger.Prefix()+"["+name+"] ", logger.Flags())
	}

	sharingSvc := sharing.New(sub("sharing"), rep.Users, rep.Diagrams, rep.Shares)
	diagramsSvc := diagrams.New(sub("diagrams"), rep.Diagrams, rep.Users, sharingSvc)
	usersSvc := users.New(sub("users"), rep.Users, ad.Hasher)

	healthHandler := &health.Handler{Log: sub("health"), DB: db, Cache: cache, Storage: bs}
	loginHandler := &auth.HandlerLogin{Log: sub("auth"), Users: rep.Users, Hasher: ad.Hasher, Tokens: ad.Tokens}
	logoutHandler := &auth.HandlerLogout{Log: sub("auth"), Tokens: ad.Tokens, Blacklist: ad.Blacklist}
	userHandler := &user.Handler{Log: sub("user"), Users: usersSvc}
	diagramHandler := &diagram.Handler{
		Log:       sub("diagram"),
		Diagrams:  diagramsSvc,
		Sharing:   sharingSvc,
		Cache:     cache,
		Storage:   bs,
		PublicTTL: publicDiagramTTL,
	}
	sharingsHandler := &sharings.Handler{Log: sub("sharings"), Sharing: sharingSvc, Cache: cache}

	authMW := mw.AuthDeps{Tokens: ad.Tokens, Blacklist: ad.Blacklist}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(healthHandler, loginHandler, logoutHandler, userHandler, diagramHandler, sharingsHandler, authMW, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
