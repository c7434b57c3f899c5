package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"tessera/admin"
	"tessera/auth"
	"tessera/categories"
	"tessera/config"
	"tessera/db"
	"tessera/events"
	"tessera/media"
	"tessera/middleware"
	"tessera/monitoring"
	"tessera/orders"
	"tessera/pay"
	"tessera/ratelim"
	"tessera/rdx"
	"tessera/routes"
	"tessera/store"
	"tessera/suppliers"
	"tessera/tickets"
	"tessera/utils"
	"tessera/venues"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(cfg *config.Config, stores *store.Stores, authMw *middleware.Auth, redis *rdx.Store) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)
	router.Handler(http.MethodGet, "/metrics", monitoring.Handler())

	verifier := pay.NewChapaClient(cfg.ChapaBaseURL, cfg.ChapaSecretKey)

	h := &routes.Handlers{
		Auth:       auth.NewHandler(cfg, stores.Users, authMw, redis),
		Events:     events.NewHandler(cfg, stores.Events),
		Categories: categories.NewHandler(cfg, stores.Categories),
		Venues:     venues.NewHandler(stores.Venues),
		Suppliers:  suppliers.NewHandler(cfg, stores.Suppliers),
		Media:      media.NewHandler(cfg, stores.Media),
		Orders:     orders.NewHandler(stores.Orders, stores.Events),
		Pay:        pay.NewHandler(stores.Orders, stores.Payments, stores.Tickets, stores.Events, verifier),
		Tickets:    tickets.NewHandler(stores.Tickets, stores.Orders, stores.Events, stores.Users, cfg.JWTSecret),
		Admin:      admin.NewHandler(stores),
	}

	routes.AddAllRoutes(router, h, authMw, ratelim.NewRateLimiter(), cfg.UploadDir)
	return router
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	cfg := config.Load()

	port := cfg.Port
	if port[0] != ':' {
		port = ":" + port
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongo, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	if err := mongo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("index creation failed: %v", err)
	}

	redis := rdx.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := redis.Ping(context.Background()); err != nil {
		log.Printf("Redis unavailable: %v", err)
	}

	if err := utils.EnsureDir(cfg.UploadDir); err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	stores := store.NewMongoStores(mongo)
	authMw := middleware.NewAuth(cfg.JWTSecret, redis)
	router := setupRouter(cfg, stores, authMw, redis)

	// middleware order: CORS -> security headers -> logging -> router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	if err := mongo.Close(context.Background()); err != nil {
		log.Printf("mongo close: %v", err)
	}
	log.Println("Server stopped cleanly")
}
