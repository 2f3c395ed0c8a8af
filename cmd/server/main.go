package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/commonshq/reserva/internal/db"
	"github.com/commonshq/reserva/internal/notify"
	"github.com/commonshq/reserva/internal/redis"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	env := LoadEnvironment()

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	// redis is optional; without it every calendar read recomputes
	if env.RedisAddress != "" {
		redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	}

	// MQTT is optional; without it clients fall back to polling
	var events *notify.Publisher
	if env.MQTTBrokerURL != "" {
		p, err := notify.New(env.MQTTBrokerURL, "reserva-server")
		if err != nil {
			log.Error().Err(err).Msg("MQTT unavailable, continuing without change notifications")
		} else {
			events = p
			defer events.Close()
		}
	}

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := db.NewStore()
	r := gin.Default()
	RegisterRoutes(r, env, store, events)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
