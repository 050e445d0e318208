package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpdesk-web-server/config"
	_ "helpdesk-web-server/docs"
	"helpdesk-web-server/internal/handler"
	"helpdesk-web-server/internal/model"
	"helpdesk-web-server/internal/repository"
	"helpdesk-web-server/internal/security"
	"helpdesk-web-server/internal/service"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Helpdesk-web-server
// @version 1.0
// @description REST API службы поддержки: заявки, пользователи, аутентификация

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	refreshTokenTTL, err := time.ParseDuration(cfg.JWT.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("Ошибка парсинга refresh_token_ttl: %v", err)
	}

	jwtService, err := security.NewJWTService(&cfg.JWT)
	if err != nil {
		log.Fatalf("Ошибка создания JWT сервиса: %v", err)
	}

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	tokenCache := repository.NewRedisTokenCache(redisClient)
	refreshTokenRepo := repository.NewRefreshTokenRepository(tokenCache, refreshTokenTTL)

	authService := service.NewAuthenticationService(userRepo, refreshTokenRepo, jwtService)
	userService := service.NewUserService(userRepo, refreshTokenRepo, jwtService)
	ticketService := service.NewTicketService(ticketRepo, userRepo)

	authHandler := handler.NewAuthenticationHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	ticketHandler := handler.NewTicketHandler(ticketService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, jwtService)
	setupUserRoutes(router, userHandler, jwtService)
	setupTicketRoutes(router, ticketHandler, jwtService)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/token", h.RefreshToken)
			r.Post("/logout", h.Logout)
		})
		r.Group(func(r chi.Router) {
			r.Use(security.RequireAuth(jwtService, model.RoleEmployee))
			r.Get("/me", h.GetCurrentUser)
			r.Post("/logout-all", h.LogoutAll)
		})
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, jwtService *security.JWTService) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.RegisterUser)

		r.Group(func(r chi.Router) {
			r.Use(security.RequireAuth(jwtService, model.RoleEmployee))
			r.Get("/users/{id}", h.GetUser)
			r.Put("/users/{id}/password", h.UpdatePassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.RequireAuth(jwtService, model.RoleAdmin))
			r.Get("/users", h.ListUsers)
			r.Put("/users/{id}/status", h.UpdateStatus)
			r.Put("/users/{id}/role", h.UpdateRole)
		})
	})
}

func setupTicketRoutes(r chi.Router, h *handler.TicketHandler, jwtService *security.JWTService) {
	r.Route("/api/tickets", func(r chi.Router) {
		// список и карточка доступны и анонимно: сервис сам ограничит
		// выдачу публичными заявками
		r.Group(func(r chi.Router) {
			r.Use(security.OptionalAuth(jwtService))
			r.Get("/", h.ListTickets)
			r.Get("/{id}", h.GetTicket)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.RequireAuth(jwtService, model.RoleEmployee))
			r.Post("/", h.CreateTicket)
			r.Put("/{id}/status", h.UpdateTicketStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.RequireAuth(jwtService, model.RoleModerator))
			r.Put("/{id}/assign", h.AssignTicket)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.RequireAuth(jwtService, model.RoleAdmin))
			r.Delete("/{id}", h.DeleteTicket)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
