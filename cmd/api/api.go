package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spotcu/internal/auth"
	"spotcu/internal/store"
	"spotcu/internal/uploads"
	"spotcu/internal/webhook"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	uploads       *uploads.Store
	webhook       *webhook.Notifier
	authenticator auth.Authenticator
}

type config struct {
	port       int
	env        string
	db         dbConfig
	admin      adminConfig
	webhookURL string
	uploadDir  string
}

type adminConfig struct {
	password   string
	secret     string
	blogAPIKey string
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		// Admin session rides an httpOnly cookie
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", app.adminLoginHandler)
			r.Post("/logout", app.adminLogoutHandler)
			r.Get("/session", app.adminSessionHandler)

			// Everything below requires a valid admin session cookie
			r.Group(func(r chi.Router) {
				r.Use(app.AdminRequiredMiddleware)

				r.Route("/products", func(r chi.Router) {
					r.Get("/", app.adminListProductsHandler)
					r.Post("/", app.createProductHandler)
					r.Get("/top-viewed", app.topViewedProductsHandler)
					r.Get("/total-views", app.totalViewsHandler)
					r.Route("/{productID}", func(r chi.Router) {
						r.Patch("/", app.updateProductHandler)
						r.Delete("/", app.deleteProductHandler)
						r.Delete("/images", app.deleteProductImageHandler)
						r.Post("/toggle-featured", app.toggleProductFeaturedHandler)
						r.Post("/toggle-active", app.toggleProductActiveHandler)
					})
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", app.adminListCategoriesHandler)
					r.Post("/", app.createCategoryHandler)
					r.Patch("/{categoryID}", app.updateCategoryHandler)
					r.Delete("/{categoryID}", app.deleteCategoryHandler)
				})

				r.Route("/blog", func(r chi.Router) {
					r.Get("/", app.adminListBlogPostsHandler)
					r.Post("/", app.createBlogPostHandler)
					r.Patch("/{postID}", app.updateBlogPostHandler)
					r.Delete("/{postID}", app.deleteBlogPostHandler)
				})
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", app.listProductsHandler)
			r.Get("/featured", app.featuredProductsHandler)
			r.Get("/{productID}", app.getProductHandler)
			r.Post("/{productID}/view", app.incrementViewHandler)
		})

		r.Get("/categories", app.listCategoriesHandler)

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", app.listBlogPostsHandler)
			r.Post("/webhook", app.createBlogPostFromWebhookHandler)
			r.Get("/{slug}", app.getBlogPostBySlugHandler)
		})
	})

	// Uploaded files are exposed read-only under /uploads
	fileServer := http.FileServer(http.Dir(app.uploads.Root()))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	return r
}

// listen binds the preferred port, falling back to the next free one within
// a window of 20 when it is busy.
func (app *application) listen() (net.Listener, int, error) {
	for port := app.config.port; port < app.config.port+20; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			if port != app.config.port {
				app.logger.Infow("preferred port is busy, falling back", "preferred", app.config.port, "port", port)
			}
			return ln, port, nil
		}
	}
	return nil, 0, fmt.Errorf("no available port found starting from %d", app.config.port)
}

func (app *application) run(mux http.Handler) error {
	ln, port, err := app.listen()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "port", port, "env", app.config.env)

	err = srv.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "port", port, "env", app.config.env)

	return nil
}
