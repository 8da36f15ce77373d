package handlers

import "net/http"

// Static informational views.

func Home(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "index", nil)
}

func About(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, http.StatusOK, "about", nil)
}
