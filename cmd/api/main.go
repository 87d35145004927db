package main

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/Shoys/wd-lab/internal/auth"
	"github.com/Shoys/wd-lab/internal/config"
	"github.com/Shoys/wd-lab/internal/database"
	"github.com/Shoys/wd-lab/internal/mailer"
	"github.com/Shoys/wd-lab/internal/routes"
	"github.com/Shoys/wd-lab/internal/store/mongostore"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	client, err := database.ConnectMongoDB(cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	st := mongostore.New(client, cfg.DatabaseName)
	if err := st.EnsureIndexes(context.Background()); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	router := routes.SetupRouter(routes.Deps{
		Users:     st.Users,
		Courses:   st.Courses,
		Requests:  st.Requests,
		Tokens:    auth.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		Mailer:    mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, logger),
		Logger:    logger,
		StaticDir: cfg.StaticDir,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
