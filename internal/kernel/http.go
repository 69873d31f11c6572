// Package kernel assembles the catalog's HTTP handler: global middleware,
// controllers and their collaborators, and the route table.
package kernel

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/app/controllers/api"
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/policies"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/graphql"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/router"
	"github.com/shashiranjanraj/catalog/pkg/session"
	"github.com/shashiranjanraj/catalog/pkg/storage"
	"github.com/shashiranjanraj/catalog/pkg/view"
	"github.com/shashiranjanraj/catalog/resources"
)

// Deps are the long-lived collaborators the kernel wires together. Zero
// values get in-memory or default implementations.
type Deps struct {
	DB        *gorm.DB
	Cache     cache.Store
	Disk      storage.Disk
	Converter *services.Converter
	Tokens    *auth.TokenIssuer
	Views     *view.Engine
	Session   session.Options

	// API requests allowed per client per minute; 0 disables limiting.
	RateLimit int
	CORS      middleware.CORSOptions
}

type Kernel struct {
	Router   *router.Router
	Sessions *session.Manager
	Events   *event.Dispatcher

	limiter *middleware.Limiter
}

func New(d Deps) (*Kernel, error) {
	if d.Cache == nil {
		d.Cache = cache.NewMemory()
	}
	if d.Converter == nil {
		d.Converter = services.NewConverter(services.DefaultRates)
	}
	if d.Tokens == nil {
		return nil, fmt.Errorf("kernel: token issuer is required")
	}
	if d.Session.CookieName == "" {
		d.Session = session.DefaultOptions()
	}
	if len(d.CORS.AllowedMethods) == 0 {
		d.CORS = middleware.DefaultCORSOptions()
	}
	if d.Views == nil {
		e, err := view.New(resources.Views(), nil)
		if err != nil {
			return nil, err
		}
		d.Views = e
	}

	productStore := repositories.NewProductRepository(d.DB)
	users := repositories.NewUserRepository(d.DB)
	listing := services.NewProductListingService(productStore, d.Converter)
	authService := services.NewAuthService(users, d.Tokens)

	k := &Kernel{
		Router:   router.New(),
		Sessions: session.NewManager(d.Cache, d.Session),
		Events:   event.NewDispatcher(),
	}
	registerListeners(k.Events)

	schema, err := api.ProductSchema(listing)
	if err != nil {
		return nil, fmt.Errorf("kernel: graphql schema: %w", err)
	}

	c := routes.Controllers{
		Products:    controllers.NewProductController(productStore, listing, k.Events),
		Auth:        controllers.NewAuthController(authService),
		APIProducts: api.NewProductController(productStore, d.Disk, k.Events),
		APIAuth:     api.NewAuthController(authService),
		GraphQL:     graphql.Handler(schema),
	}

	m := routes.Middleware{
		Session: []router.Middleware{
			k.Sessions.Middleware(),
			middleware.SessionUser(users),
			middleware.VerifyCSRF,
		},
		Authenticate: middleware.Authenticate("/login"),
		Guest:        middleware.Guest("/products"),
		Admin:        middleware.Authorize(policies.CanManageProducts),
		Bearer:       middleware.Bearer(d.Tokens, users),
	}
	if d.RateLimit > 0 {
		k.limiter = middleware.NewLimiter(d.RateLimit, time.Minute)
		m.API = append(m.API, k.limiter.Middleware())
	}

	r := k.Router
	// outermost first: metrics sees total latency, the request logger
	// needs the request id, and recovery renders error pages via the view
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Logger,
		view.Middleware(d.Views),
		middleware.Recovery,
		middleware.CORS(d.CORS),
		middleware.MethodOverride,
	)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		ctx.Abort(w, req, http.StatusNotFound, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		ctx.Abort(w, req, http.StatusMethodNotAllowed, "")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", health(d.DB))
	routes.RegisterWeb(r, c, m)
	routes.RegisterAPI(r, c, m)

	return k, nil
}

func (k *Kernel) Handler() http.Handler { return k.Router.Handler() }

// Close stops background work started by New.
func (k *Kernel) Close() {
	if k.limiter != nil {
		k.limiter.Stop()
	}
}

// registerListeners counts every product mutation and writes an audit line.
func registerListeners(d *event.Dispatcher) {
	for name, action := range map[string]string{
		event.ProductCreated: "create",
		event.ProductUpdated: "update",
		event.ProductDeleted: "delete",
	} {
		action := action // per-iteration copy; go.mod targets go1.21 loop semantics
		d.Listen(name, func(c context.Context, e event.Event) {
			metrics.ProductMutations.WithLabelValues(action).Inc()

			log := logger.WithCtx(c).With("event", e.Name)
			if a := auth.ActorFromCtx(c); a != nil {
				log = log.With("actor_id", a.ID)
			}
			switch p := e.Payload.(type) {
			case *models.Product:
				log.Info("product "+action+"d", "product_id", p.ID, "name", p.Name, "price", p.Price.StringFixed(2))
			case uint:
				log.Info("product "+action+"d", "product_id", p)
			}
		})
	}
}

func health(db *gorm.DB) http.HandlerFunc {
	return ctx.Wrap(func(c *ctx.Context) {
		if db != nil {
			if err := database.Ping(c.R.Context(), db); err != nil {
				logger.WithCtx(c.R.Context()).Error("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
