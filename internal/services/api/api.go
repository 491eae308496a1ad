// Package api is the composition root for the HTTP surface: it builds the
// service slices over one store and mounts them behind the shared middleware
// stack
package api

import (
	"time"

	"agenda/internal/core/lifecycle"
	"agenda/internal/platform/clock"
	"agenda/internal/platform/config"
	"agenda/internal/platform/logger"
	phttp "agenda/internal/platform/net/http"
	"agenda/internal/platform/net/middleware"
	"agenda/internal/platform/store"

	agendahttp "agenda/internal/services/agenda/http"
	agendarepo "agenda/internal/services/agenda/repo"
	agendasvc "agenda/internal/services/agenda/service"
	chathttp "agenda/internal/services/chat/http"
	chatsvc "agenda/internal/services/chat/service"
	munihttp "agenda/internal/services/municipalities/http"
	munirepo "agenda/internal/services/municipalities/repo"
	munisvc "agenda/internal/services/municipalities/service"
)

// Options wires the API surface
type Options struct {
	Cfg   config.Conf
	DB    store.TxRunner
	Clock clock.Clock
}

// Services bundles the constructed slices for callers that need them
// beyond the HTTP mount (the sweeper binary, the seed loader)
type Services struct {
	Agenda         *agendasvc.Svc
	Municipalities *munisvc.Svc
	Chat           *chatsvc.Svc
	Engine         *lifecycle.Engine
}

// Build constructs the service slices without mounting anything
func Build(opt Options) (*Services, error) {
	engine, err := lifecycle.Default()
	if err != nil {
		return nil, err
	}
	if opt.Clock == nil {
		opt.Clock = clock.NewSystem()
	}

	muniSvc := munisvc.New(munirepo.NewPG(opt.DB), *logger.Named("municipalities"))
	agSvc := agendasvc.New(agendarepo.NewPG(opt.DB), engine, opt.Clock, *logger.Named("agenda"))
	chSvc := chatsvc.New(agSvc, muniSvc, engine, opt.Clock)

	return &Services{
		Agenda:         agSvc,
		Municipalities: muniSvc,
		Chat:           chSvc,
		Engine:         engine,
	}, nil
}

// Mount builds the slices and mounts middleware plus all routes on r
func Mount(r phttp.Router, opt Options) (*Services, error) {
	svcs, err := Build(opt)
	if err != nil {
		return nil, err
	}

	cfg := opt.Cfg
	r.Use(
		middleware.RealIP(),
		middleware.RequestID(),
		middleware.RecoverJSON,
		middleware.AccessLog(middleware.AccessLogOptions{
			Slow: cfg.MayDuration("SLOW_REQUEST", 2*time.Second),
		}),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: []string{cfg.MayString("CORS_ORIGIN", "*")},
		}),
		middleware.Timeout(cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second)),
		middleware.Heartbeat("/healthz"),
	)

	phttp.MountSwagger(r, cfg.MayBool("SWAGGER", true))

	r.Route("/api/v1", func(v1 phttp.Router) {
		v1.Route("/events", func(rr phttp.Router) { agendahttp.Register(rr, svcs.Agenda) })
		v1.Route("/municipalities", func(rr phttp.Router) { munihttp.Register(rr, svcs.Municipalities) })
		v1.Route("/chat", func(rr phttp.Router) { chathttp.Register(rr, svcs.Chat) })
	})

	return svcs, nil
}
