package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/auth"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/db"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/gate"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/httpx"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/models"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/validation"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/view"
)

// dateLayout renders the creation/last-edit stamp as "Month DD, YYYY".
const dateLayout = "January 02, 2006"

type CafeHandler struct {
	DB   *gorm.DB
	Gate *gate.Gate[uint]
}

func NewCafeHandler(conn *gorm.DB, g *gate.Gate[uint]) *CafeHandler {
	return &CafeHandler{DB: conn, Gate: g}
}

// cafeForm mirrors the add/edit form fields.
type cafeForm struct {
	Name         string
	MapURL       string
	ImgURL       string
	Location     string
	Phone        string
	OpenTime     string
	CloseTime    string
	CoffeeRating string
	FoodRating   string
	WifiRating   string
	PowerOutlet  string
	CoffeePrice  string
	Body         string
}

func parseCafeForm(r *http.Request) cafeForm {
	return cafeForm{
		Name:         strings.TrimSpace(r.FormValue("name")),
		MapURL:       strings.TrimSpace(r.FormValue("map_url")),
		ImgURL:       strings.TrimSpace(r.FormValue("img_url")),
		Location:     strings.TrimSpace(r.FormValue("location")),
		Phone:        strings.TrimSpace(r.FormValue("phone")),
		OpenTime:     strings.TrimSpace(r.FormValue("open_time")),
		CloseTime:    strings.TrimSpace(r.FormValue("close_time")),
		CoffeeRating: r.FormValue("coffee_rating"),
		FoodRating:   r.FormValue("food_rating"),
		WifiRating:   r.FormValue("wifi_rating"),
		PowerOutlet:  r.FormValue("power_outlet"),
		CoffeePrice:  strings.TrimSpace(r.FormValue("coffee_price")),
		Body:         r.FormValue("body"),
	}
}

func (f cafeForm) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", f.Name, v)
	validation.Required("map_url", f.MapURL, v)
	validation.URLField("map_url", f.MapURL, v)
	validation.Required("img_url", f.ImgURL, v)
	validation.URLField("img_url", f.ImgURL, v)
	validation.Required("location", f.Location, v)
	validation.Required("phone", f.Phone, v)
	validation.Required("open_time", f.OpenTime, v)
	validation.TimeOfDay("open_time", f.OpenTime, v)
	validation.Required("close_time", f.CloseTime, v)
	validation.TimeOfDay("close_time", f.CloseTime, v)
	validation.OneOf("coffee_rating", f.CoffeeRating, models.CoffeeRatingChoices, v)
	validation.OneOf("food_rating", f.FoodRating, models.FoodRatingChoices, v)
	validation.OneOf("wifi_rating", f.WifiRating, models.WifiRatingChoices, v)
	validation.OneOf("power_outlet", f.PowerOutlet, models.PowerOutletChoices, v)
	validation.Required("coffee_price", f.CoffeePrice, v)
	validation.Required("body", f.Body, v)
	return v
}

// apply overwrites every editable field; the author reference is untouched.
func (f cafeForm) apply(cafe *models.Cafe) {
	cafe.Name = f.Name
	cafe.MapURL = f.MapURL
	cafe.ImgURL = f.ImgURL
	cafe.Location = f.Location
	cafe.Phone = f.Phone
	cafe.OpenTime = f.OpenTime
	cafe.CloseTime = f.CloseTime
	cafe.CoffeeRating = f.CoffeeRating
	cafe.FoodRating = f.FoodRating
	cafe.WifiRating = f.WifiRating
	cafe.PowerOutlet = f.PowerOutlet
	cafe.CoffeePrice = f.CoffeePrice
	cafe.Body = f.Body
	cafe.Date = time.Now().Format(dateLayout)
}

func formFromCafe(cafe models.Cafe) cafeForm {
	return cafeForm{
		Name:         cafe.Name,
		MapURL:       cafe.MapURL,
		ImgURL:       cafe.ImgURL,
		Location:     cafe.Location,
		Phone:        cafe.Phone,
		OpenTime:     cafe.OpenTime,
		CloseTime:    cafe.CloseTime,
		CoffeeRating: cafe.CoffeeRating,
		FoodRating:   cafe.FoodRating,
		WifiRating:   cafe.WifiRating,
		PowerOutlet:  cafe.PowerOutlet,
		CoffeePrice:  cafe.CoffeePrice,
		Body:         cafe.Body,
	}
}

func ratingChoices() map[string]any {
	return map[string]any{
		"CoffeeChoices": models.CoffeeRatingChoices,
		"FoodChoices":   models.FoodRatingChoices,
		"WifiChoices":   models.WifiRatingChoices,
		"PowerChoices":  models.PowerOutletChoices,
	}
}

func (h *CafeHandler) renderCafeForm(w http.ResponseWriter, r *http.Request, status int, f cafeForm, v validation.Violations, isEdit bool, cafeID uint) {
	data := ratingChoices()
	data["Form"] = f
	data["IsEdit"] = isEdit
	data["CafeID"] = cafeID
	if v != nil && !v.Empty() {
		data["Errors"] = v
	}
	renderTemplate(w, r, status, "add-cafe", data)
}

// List serves the full cafe listing. No pagination or filtering.
func (h *CafeHandler) List(w http.ResponseWriter, r *http.Request) {
	var cafes []models.Cafe
	if err := h.DB.Order("id").Find(&cafes).Error; err != nil {
		renderTemplate(w, r, http.StatusInternalServerError, "find-cafes", map[string]any{"Error": "could not load cafes"})
		return
	}
	renderTemplate(w, r, http.StatusOK, "find-cafes", map[string]any{"AllCafes": cafes})
}

// ListJSON serves the same listing as JSON for programmatic clients.
func (h *CafeHandler) ListJSON(w http.ResponseWriter, r *http.Request) {
	var cafes []models.Cafe
	if err := h.DB.Order("id").Find(&cafes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_cafes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cafes": cafes})
}

// Show renders a cafe's detail view; POST submits a comment.
func (h *CafeHandler) Show(w http.ResponseWriter, r *http.Request) {
	cafe, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodPost {
		h.submitComment(w, r, cafe)
		return
	}

	comments, err := db.FindCommentsByCafe(h.DB, cafe.ID)
	if err != nil {
		renderTemplate(w, r, http.StatusInternalServerError, "cafe", map[string]any{"Cafe": cafe, "Error": "could not load comments"})
		return
	}
	renderTemplate(w, r, http.StatusOK, "cafe", map[string]any{"Cafe": cafe, "Comments": comments})
}

func (h *CafeHandler) submitComment(w http.ResponseWriter, r *http.Request, cafe models.Cafe) {
	identity := auth.IdentityFrom(r.Context())
	if !identity.Authenticated() {
		// Never persist a comment for an anonymous submission.
		view.SetFlash(w, "You need to login or register to comment.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderTemplate(w, r, http.StatusBadRequest, "cafe", map[string]any{"Cafe": cafe, "Error": "invalid form"})
		return
	}
	text := strings.TrimSpace(r.FormValue("comment_text"))
	if text == "" {
		comments, _ := db.FindCommentsByCafe(h.DB, cafe.ID)
		renderTemplate(w, r, http.StatusBadRequest, "cafe", map[string]any{
			"Cafe": cafe, "Comments": comments,
			"Errors": validation.Violations{"comment_text": "required"},
		})
		return
	}
	comment := models.Comment{Text: text, AuthorID: identity.ID, CafeID: cafe.ID}
	if err := h.DB.Create(&comment).Error; err != nil {
		renderTemplate(w, r, http.StatusInternalServerError, "cafe", map[string]any{"Cafe": cafe, "Error": "could not save comment"})
		return
	}
	http.Redirect(w, r, "/cafe/"+strconv.FormatUint(uint64(cafe.ID), 10), http.StatusSeeOther)
}

// Add creates a new cafe. Any authenticated identity may add one; the
// router enforces authentication.
func (h *CafeHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.renderCafeForm(w, r, http.StatusOK, cafeForm{}, nil, false, 0)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderCafeForm(w, r, http.StatusBadRequest, cafeForm{}, validation.Violations{"form": "invalid"}, false, 0)
		return
	}
	f := parseCafeForm(r)
	if v := f.validate(); !v.Empty() {
		h.renderCafeForm(w, r, http.StatusBadRequest, f, v, false, 0)
		return
	}

	identity := auth.IdentityFrom(r.Context())
	cafe := models.Cafe{AuthorID: identity.ID}
	f.apply(&cafe)
	if err := h.DB.Create(&cafe).Error; err != nil {
		if isDuplicateErr(err) {
			h.renderCafeForm(w, r, http.StatusConflict, f, validation.Violations{"name": "already_exists"}, false, 0)
			return
		}
		h.renderCafeForm(w, r, http.StatusInternalServerError, f, validation.Violations{"form": "db_error"}, false, 0)
		return
	}
	http.Redirect(w, r, "/find-cafes", http.StatusSeeOther)
}

// Edit overwrites a cafe. Privileged identities only; everyone else gets a
// hard 403.
func (h *CafeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, gate.ActionUpdate) {
		return
	}
	cafe, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.renderCafeForm(w, r, http.StatusOK, formFromCafe(cafe), nil, true, cafe.ID)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderCafeForm(w, r, http.StatusBadRequest, formFromCafe(cafe), validation.Violations{"form": "invalid"}, true, cafe.ID)
		return
	}
	f := parseCafeForm(r)
	if v := f.validate(); !v.Empty() {
		h.renderCafeForm(w, r, http.StatusBadRequest, f, v, true, cafe.ID)
		return
	}

	f.apply(&cafe)
	if err := h.DB.Save(&cafe).Error; err != nil {
		if isDuplicateErr(err) {
			h.renderCafeForm(w, r, http.StatusConflict, f, validation.Violations{"name": "already_exists"}, true, cafe.ID)
			return
		}
		h.renderCafeForm(w, r, http.StatusInternalServerError, f, validation.Violations{"form": "db_error"}, true, cafe.ID)
		return
	}
	http.Redirect(w, r, "/cafe/"+strconv.FormatUint(uint64(cafe.ID), 10), http.StatusSeeOther)
}

// Delete removes a cafe and its comments. Privileged identities only.
func (h *CafeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, gate.ActionDelete) {
		return
	}
	cafe, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := db.DeleteCafe(h.DB, cafe.ID); err != nil {
		renderTemplate(w, r, http.StatusInternalServerError, "find-cafes", map[string]any{"Error": "could not delete cafe"})
		return
	}
	http.Redirect(w, r, "/find-cafes", http.StatusSeeOther)
}

// authorize is the explicit guard composed at the start of privileged
// handlers. Denial writes a hard 403.
func (h *CafeHandler) authorize(w http.ResponseWriter, r *http.Request, action gate.Action) bool {
	identity := auth.IdentityFrom(r.Context())
	if err := h.Gate.Authorize(r.Context(), identity.ID, action, "cafe"); err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// lookup fetches the cafe named by the {id} path segment, writing a 404
// when it does not exist.
func (h *CafeHandler) lookup(w http.ResponseWriter, r *http.Request) (models.Cafe, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		http.NotFound(w, r)
		return models.Cafe{}, false
	}
	var cafe models.Cafe
	if err := h.DB.First(&cafe, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return models.Cafe{}, false
	}
	return cafe, true
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
