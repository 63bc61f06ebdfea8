package httpapi

import (
	"net/http"
	"time"

	"village-records-backend-go/internal/config"
	"village-records-backend-go/internal/services"
	"village-records-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Server struct {
	Store    store.Store
	Config   config.Config
	Tokens   services.TokenService
	Activity *services.ActivityLogger
	Hub      *services.AdminHub
}

func NewServer(st store.Store, cfg config.Config, activity *services.ActivityLogger, hub *services.AdminHub) *Server {
	tokens := services.TokenService{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    time.Duration(cfg.TokenTTLHours) * time.Hour,
	}
	return &Server{
		Store:    st,
		Config:   cfg,
		Tokens:   tokens,
		Activity: activity,
		Hub:      hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", s.Login)
		api.Post("/auth/logout", s.Logout)

		api.Route("/roads", func(roads chi.Router) {
			roads.Get("/", s.ListRoads)
			roads.Post("/", s.CreateRoad)
			roads.Put("/{roadId}", s.UpdateRoad)
			roads.Delete("/{roadId}", s.DeleteRoad)
			roads.Get("/{roadId}/sub-roads", s.ListRoadSubRoads)
			roads.Get("/{roadId}/addresses", s.ListMainRoadAddresses)
			roads.Get("/{roadId}/sub-roads/{subRoadId}/addresses", s.ListSubRoadAddresses)
		})

		api.Route("/sub-roads", func(subRoads chi.Router) {
			subRoads.Get("/", s.ListSubRoads)
			subRoads.Post("/", s.CreateSubRoad)
			subRoads.Put("/{subRoadId}", s.UpdateSubRoad)
			subRoads.Delete("/{subRoadId}", s.DeleteSubRoad)
		})

		// Development projects answer on both paths: the UI calls
		// /road-development, older clients /sub-sub-roads.
		for _, prefix := range []string{"/sub-sub-roads", "/road-development"} {
			api.Route(prefix, func(projects chi.Router) {
				projects.Get("/", s.ListProjects)
				projects.Post("/", s.CreateProject)
				projects.Put("/{projectId}", s.UpdateProject)
				projects.Delete("/{projectId}", s.DeleteProject)
				projects.Get("/stats", s.ProjectStats)
			})
		}

		api.Route("/addresses", func(addresses chi.Router) {
			addresses.Get("/", s.ListAddresses)
			addresses.Post("/", s.CreateAddress)
			addresses.Put("/{addressId}", s.UpdateAddress)
			addresses.Delete("/{addressId}", s.DeleteAddress)
		})

		api.Route("/households", func(households chi.Router) {
			households.Get("/", s.ListHouseholds)
			households.Post("/", s.CreateHousehold)
			households.Get("/{householdId}", s.GetHousehold)
			households.Put("/{householdId}", s.UpdateHousehold)
			households.Delete("/{householdId}", s.DeleteHousehold)
		})

		api.Route("/members", func(members chi.Router) {
			members.Get("/", s.ListMembers)
			members.Post("/", s.CreateMember)
			members.Get("/{memberId}", s.GetMember)
			members.Put("/{memberId}", s.UpdateMember)
			members.Delete("/{memberId}", s.DeleteMember)
		})

		api.Route("/businesses", func(businesses chi.Router) {
			businesses.Get("/", s.ListBusinesses)
			businesses.Post("/", s.CreateBusiness)
			businesses.Get("/{businessId}", s.GetBusiness)
			businesses.Put("/{businessId}", s.UpdateBusiness)
			businesses.Delete("/{businessId}", s.DeleteBusiness)
		})

		api.Route("/road-lamps", func(lamps chi.Router) {
			lamps.Get("/", s.ListLamps)
			lamps.Post("/", s.CreateLamp)
			lamps.Get("/{lampId}", s.GetLamp)
			lamps.Put("/{lampId}", s.UpdateLamp)
			lamps.Patch("/{lampId}/status", s.UpdateLampStatus)
			lamps.Delete("/{lampId}", s.DeleteLamp)
		})

		api.Get("/dashboard/stats", s.DashboardStats)
		api.Get("/dashboard/member-stats", s.DashboardMemberStats)

		api.Route("/activity-logs", func(logs chi.Router) {
			logs.Use(WithAdmin(s.Tokens))
			logs.Get("/", s.ListActivityLogs)
			logs.Post("/", s.CreateActivityLog)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAdmin(s.Tokens))
			admin.Get("/metrics/history", s.MetricsHistory)
		})
	})

	r.Get("/ws/admin", s.AdminSocket)
	return r
}
