package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnector/backend/internal/config"
	"github.com/devconnector/backend/internal/handlers"
	appMiddleware "github.com/devconnector/backend/internal/middleware"
	"github.com/devconnector/backend/internal/services"
	"github.com/devconnector/backend/internal/token"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("mongo ping: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB)

	userService, err := services.NewMongoUserService(ctx, db)
	if err != nil {
		log.Fatalf("user service: %v", err)
	}
	profileService, err := services.NewMongoProfileService(ctx, db)
	if err != nil {
		log.Fatalf("profile service: %v", err)
	}
	githubClient := services.NewGithubClient(cfg.GithubClientID, cfg.GithubClientSecret)

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTExpiration)
	guard := appMiddleware.TokenAuth(tokens)

	authHandler := handlers.NewAuthHandler(userService, tokens)
	usersHandler := handlers.NewUsersHandler(userService, tokens)
	profileHandler := handlers.NewProfileHandler(profileService, userService, githubClient)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-auth-token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", usersHandler.Register)

		r.Route("/auth", func(r chi.Router) {
			r.With(guard).Get("/", authHandler.Me)
			r.Post("/", authHandler.Login)
		})

		r.Route("/profile", func(r chi.Router) {
			// Public routes
			r.Get("/", profileHandler.List)
			r.Get("/user/{userId}", profileHandler.GetByUser)
			r.Get("/github/{username}", profileHandler.GithubRepos)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(guard)

				r.Get("/me", profileHandler.Me)
				r.Post("/", profileHandler.Upsert)
				r.Delete("/", profileHandler.DeleteAccount)

				r.Put("/experience", profileHandler.AddExperience)
				r.Delete("/experience/{expId}", profileHandler.RemoveExperience)
				r.Put("/education", profileHandler.AddEducation)
				r.Delete("/education/{eduId}", profileHandler.RemoveEducation)
			})
		})
	})

	log.Printf("API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
