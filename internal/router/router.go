package router

import (
	"context"
	"net/http"
	"time"

	mem "estancia-digital/internal/adapters/storage/memory"
	"estancia-digital/internal/adapters/storage/sqldb"
	_ "estancia-digital/internal/docs"
	"estancia-digital/internal/domain/animals"
	"estancia-digital/internal/domain/events"
	"estancia-digital/internal/domain/gestations"
	"estancia-digital/internal/middleware"
	"estancia-digital/internal/platform/logger"
	"estancia-digital/internal/platform/metrics"
	"estancia-digital/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa el store SQL (postgres o sqlite). Si no, in-memory.
	Store *sqldb.Store

	Logger  logger.Logger
	Metrics *metrics.Recorder // nil: sin /metrics
}

// Services son los módulos ya cableados; los usa el router y también la CLI.
type Services struct {
	Animals    *animals.Service
	Events     *events.Service
	Gestations *gestations.Service

	store *sqldb.Store
}

func NewServices(opts Options) *Services {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var (
		animalRepo animals.Repository
		eventRepo  events.Repository
		gestRepo   gestations.Repository
	)

	gestOpts := []gestations.Option{gestations.WithLogger(log.With(map[string]any{"module": "gestations"}))}

	if opts.Store != nil {
		animalRepo = opts.Store.Animals
		eventRepo = opts.Store.Events
		gestRepo = opts.Store.Gestations
		// Crías y cierre en una sola transacción.
		gestOpts = append(gestOpts, gestations.WithTxRunner(opts.Store.DB))
	} else {
		animalRepo = mem.NewAnimalRepo()
		eventRepo = mem.NewEventRepo()
		gestRepo = mem.NewGestationRepo()
	}
	if opts.Metrics != nil {
		gestOpts = append(gestOpts, gestations.WithMetrics(opts.Metrics))
	}

	eventsSvc := events.NewService(eventRepo)
	gestOpts = append(gestOpts, gestations.WithTimeline(eventsSvc))

	return &Services{
		Animals: animals.NewService(animalRepo,
			animals.WithTimeline(eventsSvc),
			animals.WithLogger(log.With(map[string]any{"module": "animals"})),
		),
		Events:     eventsSvc,
		Gestations: gestations.NewService(gestRepo, animalRepo, gestOpts...),
		store:      opts.Store,
	}
}

func NewRouter(opts Options) http.Handler {
	return newRouter(opts, NewServices(opts))
}

// NewRouterWithServices permite compartir los services con otros procesos (scheduler).
func NewRouterWithServices(opts Options, svcs *Services) http.Handler {
	return newRouter(opts, svcs)
}

func newRouter(opts Options, svcs *Services) http.Handler {
	zl := zerolog.Nop()
	if z, ok := opts.Logger.(*logger.ZeroLogger); ok {
		zl = z.Zerolog()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(zl))
	r.Use(middleware.Recover(zl))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", healthHandler(svcs.store))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	animals.RegisterRoutes(r, svcs.Animals)
	events.RegisterRoutes(r, svcs.Events, svcs.Animals)
	gestations.RegisterRoutes(r, svcs.Gestations)

	return r
}

// healthHandler godoc
// @Summary Health check
// @Description Con base de datos configurada hace ping; 503 si no responde.
// @Tags system
// @Produce plain
// @Success 200 {string} string "ok"
// @Failure 503 {string} string "storage unavailable"
// @Router /health [get]
func healthHandler(store *sqldb.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := store.DB.Ping(ctx); err != nil {
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
