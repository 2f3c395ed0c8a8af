package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/commonshq/reserva/internal/db"
	"github.com/commonshq/reserva/internal/http/api"
	authapi "github.com/commonshq/reserva/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/commonshq/reserva/internal/http/api/admin/endpoints"
	calendarapi "github.com/commonshq/reserva/internal/http/api/calendar/endpoints"
	"github.com/commonshq/reserva/internal/notify"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, events *notify.Publisher) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		adminapi.ResourceModule(store, events),
		adminapi.ActivityModule(store, events),
		// session endpoints that require auth
		authapi.AuthSessionModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		calendarapi.CalendarModule(store),
	)
}
