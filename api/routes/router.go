package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripmate-app/tripmate-backend/api/controllers"
	"github.com/tripmate-app/tripmate-backend/api/middleware"
	"github.com/tripmate-app/tripmate-backend/internal/invites"
	"github.com/tripmate-app/tripmate-backend/internal/items"
	"github.com/tripmate-app/tripmate-backend/internal/participants"
	"github.com/tripmate-app/tripmate-backend/internal/plans"
	"github.com/tripmate-app/tripmate-backend/pkg/config"
	"github.com/tripmate-app/tripmate-backend/pkg/logger"
	"github.com/tripmate-app/tripmate-backend/pkg/metrics"
)

// Services bundles the domain services the router dispatches to.
type Services struct {
	Plans        plans.Service
	Participants participants.Service
	Items        items.Service
	Invites      invites.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
		middleware.Identity(cfg.JWT, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/auth/me", controllers.AuthMe(logg))

	r.Route("/plans", func(r chi.Router) {
		r.Get("/", controllers.PlanList(svcs.Plans, logg))
		r.Post("/with-owner", controllers.PlanCreateWithOwner(svcs.Plans, logg))

		r.Route("/{planId}", func(r chi.Router) {
			r.Get("/", controllers.PlanDetail(svcs.Plans, logg))
			r.Patch("/", controllers.PlanUpdate(svcs.Plans, logg))
			r.Delete("/", controllers.PlanDelete(svcs.Plans, logg))

			r.Post("/participants", controllers.ParticipantAdd(svcs.Participants, logg))

			r.Post("/items", controllers.ItemCreate(svcs.Items, logg))
			r.Post("/items/bulk", controllers.ItemBulkUpdate(svcs.Items, logg))

			r.Post("/claim/{token}", controllers.InviteClaim(svcs.Invites, logg))
			r.Route("/invite/{token}", func(r chi.Router) {
				r.Get("/", controllers.InvitePreview(svcs.Invites, logg))
				r.Patch("/preferences", controllers.InvitePreferences(svcs.Invites, logg))
				r.Post("/items", controllers.InviteItemCreate(svcs.Invites, logg))
				r.Patch("/items/{itemId}", controllers.InviteItemUpdate(svcs.Invites, logg))
			})
		})
	})

	r.Route("/participants/{participantId}", func(r chi.Router) {
		r.Patch("/", controllers.ParticipantUpdate(svcs.Participants, logg))
		r.Delete("/", controllers.ParticipantDelete(svcs.Participants, logg))
	})

	r.Route("/items/{itemId}", func(r chi.Router) {
		r.Patch("/", controllers.ItemUpdate(svcs.Items, logg))
		r.Delete("/", controllers.ItemDelete(svcs.Items, logg))
	})

	return r
}
