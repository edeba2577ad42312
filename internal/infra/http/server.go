package http

import (
	"context"
	"net/http"
	"time"

	"walletlink/internal/config"
	"walletlink/internal/infra/db"
	"walletlink/internal/infra/dedupe"
	"walletlink/internal/infra/grantmem"
	"walletlink/internal/infra/policyopa"
	"walletlink/internal/infra/profilemem"
	"walletlink/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine

	silentUC *usecase.SilentAuthorize
	builder  *usecase.ResponseBuilder

	authorizations usecase.AuthorizationStore
	profiles       usecase.ProfileStore

	policyInitErr error
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r}
	s.initDeps()
	s.routes()
	return s
}

type ServerDeps struct {
	Silent         *usecase.SilentAuthorize
	Builder        *usecase.ResponseBuilder
	Authorizations usecase.AuthorizationStore
	Profiles       usecase.ProfileStore
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:            cfg,
		r:              r,
		silentUC:       deps.Silent,
		builder:        deps.Builder,
		authorizations: deps.Authorizations,
		profiles:       deps.Profiles,
	}
	if s.builder == nil {
		s.builder = &usecase.ResponseBuilder{}
	}
	s.routes()
	return s
}

func (s *Server) initDeps() {
	if s.store != nil && s.store.DB != nil {
		s.authorizations = db.NewDappRepository(s.store.DB)
		s.profiles = db.NewProfileRepository(s.store.DB)
	} else {
		s.authorizations = grantmem.New()
		s.profiles = profilemem.New()
	}

	policy, err := buildGrantPolicy(s.cfg)
	if err != nil {
		s.policyInitErr = err
		return
	}

	var guard usecase.InteractionGuard
	if s.cfg.RedisAddr != "" {
		if redisGuard, err := dedupe.NewRedisGuard(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, s.cfg.InteractionTTL); err == nil {
			guard = redisGuard
		}
	}
	if guard == nil {
		guard = dedupe.NewMemoryGuard(dedupe.MemoryGuardConfig{TTL: s.cfg.InteractionTTL})
	}

	s.builder = &usecase.ResponseBuilder{}
	s.silentUC = &usecase.SilentAuthorize{
		Ledger: &usecase.GrantLedger{
			Store:    s.authorizations,
			Profiles: s.profiles,
			Policy:   policy,
		},
		Profiles: s.profiles,
		Builder:  s.builder,
		Guard:    guard,
		Now:      time.Now,
	}
}

func buildGrantPolicy(cfg config.Config) (usecase.GrantPolicy, error) {
	if cfg.GrantPolicyBundlePath != "" {
		return policyopa.NewEngineFromBundlePath(context.Background(), cfg.GrantPolicyBundlePath)
	}
	return policyopa.NewEngine(context.Background())
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": dbMode})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/interactions", s.handleInteraction)
		v1.POST("/responses/authorized", s.handleBuildAuthorizedResponse)
		v1.POST("/responses/unauthorized", s.handleBuildUnauthorizedResponse)

		v1.GET("/dapps/:address", s.handleGetDapp)
		v1.PUT("/dapps/:address", s.handlePutDapp)
		v1.GET("/personas/:address", s.handleGetPersona)
	}
}

func (s *Server) Run() error {
	if s.policyInitErr != nil {
		return s.policyInitErr
	}
	return s.r.Run(s.cfg.HTTPAddr)
}
