package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/auth"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/config"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/gate"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/handlers"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/httpx"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/mailer"
)

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(db *gorm.DB, cfg config.Config, m mailer.Mailer) http.Handler {
	mux := http.NewServeMux()

	// Cafe mutations are gated by the privileged-ID policy.
	g := gate.NewGate[uint]()
	g.Register("cafe", gate.NewPrivilegedIDPolicy(cfg.AdminIDs...))

	ah := handlers.NewAuthHandler(db)
	ch := handlers.NewCafeHandler(db, g)
	contact := handlers.NewContactHandler(m)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Identity flows
	mux.HandleFunc("GET /register", ah.Register)
	mux.HandleFunc("POST /register", ah.Register)
	mux.HandleFunc("GET /login", ah.Login)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("GET /logout", ah.Logout)

	// Informational pages
	mux.HandleFunc("GET /{$}", handlers.Home)
	mux.HandleFunc("GET /about", handlers.About)

	// Cafes
	mux.HandleFunc("GET /find-cafes", ch.List)
	mux.HandleFunc("GET /api/cafes", ch.ListJSON)
	mux.HandleFunc("GET /cafe/{id}", ch.Show)
	mux.HandleFunc("POST /cafe/{id}", ch.Show)
	mux.Handle("GET /add-cafe", auth.RequireAuth(http.HandlerFunc(ch.Add)))
	mux.Handle("POST /add-cafe", auth.RequireAuth(http.HandlerFunc(ch.Add)))
	mux.HandleFunc("GET /edit-cafe/{id}", ch.Edit)
	mux.HandleFunc("POST /edit-cafe/{id}", ch.Edit)
	mux.HandleFunc("GET /delete/{id}", ch.Delete)

	// Contact relay (no persistence)
	mux.HandleFunc("GET /contact", contact.Handle)
	mux.HandleFunc("POST /contact", contact.Handle)

	// Static assets
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticHandler()))

	return auth.Middleware(db)(withRecover(withLogging(mux)))
}

func staticHandler() http.Handler {
	fs := http.FileServer(http.Dir("static"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fs.ServeHTTP(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
