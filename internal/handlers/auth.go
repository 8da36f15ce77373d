package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/auth"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/db"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/models"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/validation"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/view"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(conn *gorm.DB) *AuthHandler { return &AuthHandler{DB: conn} }

// renderTemplate uses the shared view.Render to ensure layout, funcs, and
// caching. view.Render writes the status line, so flash cookies set while
// building the page still make it out on error responses.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if err := view.Render(w, r, status, name+".html", data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, http.StatusOK, "register", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderTemplate(w, r, http.StatusBadRequest, "register", map[string]any{"Error": "invalid form"})
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	name := strings.TrimSpace(r.FormValue("name"))

	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Required("password", password, v)
	validation.Required("name", name, v)
	if !v.Empty() {
		renderTemplate(w, r, http.StatusBadRequest, "register", map[string]any{"Errors": v, "Email": email, "Name": name})
		return
	}

	if _, err := db.FindUserByEmail(h.DB, email); err == nil {
		view.SetFlash(w, "You've already signed up with that email, log in instead!")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user := models.User{Email: email, Password: auth.HashPassword(password), Name: name}
	if err := h.DB.Create(&user).Error; err != nil {
		// The unique index catches a concurrent registration that raced
		// past the lookup above.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			view.SetFlash(w, "You've already signed up with that email, log in instead!")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, http.StatusInternalServerError, "register", map[string]any{"Error": "could not create account", "Email": email, "Name": name})
		return
	}

	// Auto-login the freshly registered user.
	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, http.StatusOK, "login", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderTemplate(w, r, http.StatusBadRequest, "login", map[string]any{"Error": "invalid form"})
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Required("password", password, v)
	if !v.Empty() {
		renderTemplate(w, r, http.StatusBadRequest, "login", map[string]any{"Errors": v, "Email": email})
		return
	}

	// Unknown email and wrong password are reported as distinct messages.
	// This mirrors the historical user-visible behavior on purpose; it is
	// not an accident to be "fixed" into a generic message.
	user, err := db.FindUserByEmail(h.DB, email)
	if err != nil {
		view.SetFlash(w, "That email does not exist, please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !auth.CheckPassword(user.Password, password) {
		view.SetFlash(w, "Password incorrect, please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session. Idempotent: logging out while anonymous just
// redirects home.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
