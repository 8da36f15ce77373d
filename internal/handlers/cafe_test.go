package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/auth"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/gate"
	"github.com/muraken91/day-88-cafes-wifi-website/internal/models"
)

func newCafeHandler(conn *gorm.DB) *CafeHandler {
	g := gate.NewGate[uint]()
	g.Register("cafe", gate.NewPrivilegedIDPolicy(1, 2))
	return NewCafeHandler(conn, g)
}

// asUser attaches an authenticated identity the way the session middleware
// would.
func asUser(r *http.Request, id uint, name string) *http.Request {
	identity := auth.Identity{ID: id, Email: name + "@example.com", Name: name}
	return r.WithContext(auth.WithIdentity(r.Context(), identity))
}

func validCafeValues(name string) url.Values {
	return url.Values{
		"name":          {name},
		"map_url":       {"https://maps.google.com/?q=" + url.QueryEscape(name)},
		"img_url":       {"https://example.com/cafe.jpg"},
		"location":      {"Dublin"},
		"phone":         {"+353 1 555 0100"},
		"open_time":     {"08:00"},
		"close_time":    {"18:00"},
		"coffee_rating": {"☕☕☕"},
		"food_rating":   {"🥐🥐"},
		"wifi_rating":   {"📡📡📡📡"},
		"power_outlet":  {"🔌🔌"},
		"coffee_price":  {"€3.50"},
		"body":          {"<p>Great light and strong espresso.</p>"},
	}
}

func seedCafe(t *testing.T, conn *gorm.DB, name string, authorID uint) models.Cafe {
	t.Helper()
	cafe := models.Cafe{
		Name: name, MapURL: "https://maps.google.com/?q=x", ImgURL: "https://example.com/x.jpg",
		Location: "Dublin", Phone: "+353 1 555 0100", OpenTime: "08:00", CloseTime: "18:00",
		CoffeeRating: "☕☕", FoodRating: "🥐", WifiRating: "📡", PowerOutlet: "🔌",
		CoffeePrice: "€3.00", Body: "<p>Fine.</p>",
		Date: time.Now().Format(dateLayout), AuthorID: authorID,
	}
	if err := conn.Create(&cafe).Error; err != nil {
		t.Fatalf("seed cafe: %v", err)
	}
	return cafe
}

func TestAddCafePersists(t *testing.T) {
	conn := setupTestDB(t)
	h := newCafeHandler(conn)

	rec := httptest.NewRecorder()
	h.Add(rec, asUser(postForm("/add-cafe", validCafeValues("Hatch & Sons")), 5, "Ada"))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/find-cafes" {
		t.Fatalf("expected 303 to /find-cafes, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	var cafe models.Cafe
	if err := conn.Where("name = ?", "Hatch & Sons").First(&cafe).Error; err != nil {
		t.Fatalf("cafe not persisted: %v", err)
	}
	if cafe.AuthorID != 5 {
		t.Errorf("author = %d, want 5", cafe.AuthorID)
	}
	if _, err := time.Parse(dateLayout, cafe.Date); err != nil {
		t.Errorf("date %q does not match layout: %v", cafe.Date, err)
	}
}

func TestAddCafeRejectsInvalidURLs(t *testing.T) {
	conn := setupTestDB(t)
	h := newCafeHandler(conn)

	form := validCafeValues("Bad URL Cafe")
	form.Set("map_url", "not-a-url")
	form.Set("img_url", "ftp://example.com/x.jpg")

	rec := httptest.NewRecorder()
	h.Add(rec, asUser(postForm("/add-cafe", form), 5, "Ada"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var count int64
	conn.Model(&models.Cafe{}).Count(&count)
	if count != 0 {
		t.Fatalf("invalid cafe persisted")
	}
}

func TestAddCafeRejectsBadRating(t *testing.T) {
	conn := setupTestDB(t)
	h := newCafeHandler(conn)

	form := validCafeValues("Rating Cafe")
	form.Set("coffee_rating", "six stars")

	rec := httptest.NewRecorder()
	h.Add(rec, asUser(postForm("/add-cafe", form), 5, "Ada"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddCafeDuplicateName(t *testing.T) {
	conn := setupTestDB(t)
	seedCafe(t, conn, "Twin Cafe", 1)
	h := newCafeHandler(conn)

	rec := httptest.NewRecorder()
	h.Add(rec, asUser(postForm("/add-cafe", validCafeValues("Twin Cafe")), 5, "Ada"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var count int64
	conn.Model(&models.Cafe{}).Where("name = ?", "Twin Cafe").Count(&count)
	if count != 1 {
		t.Fatalf("duplicate name created a second row, count=%d", count)
	}
}

func TestEditForbiddenForUnprivilegedUser(t *testing.T) {
	conn := setupTestDB(t)
	cafe := seedCafe(t, conn, "Locked Cafe", 3)
	h := newCafeHandler(conn)

	form := validCafeValues("Renamed Cafe")
	req := asUser(postForm("/edit-cafe/1", form), 3, "Eve")
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Edit(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var reloaded models.Cafe
	conn.First(&reloaded, cafe.ID)
	if reloaded.Name != "Locked Cafe" {
		t.Fatalf("forbidden edit changed the row: %q", reloaded.Name)
	}
}

func TestEditUpdatesFieldsAndDate(t *testing.T) {
	conn := setupTestDB(t)
	cafe := seedCafe(t, conn, "Old Name", 7)
	conn.Model(&cafe).Update("date", "January 01, 2020")
	h := newCafeHandler(conn)

	form := validCafeValues("New Name")
	req := asUser(postForm("/edit-cafe/1", form), 1, "Admin")
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Edit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	var reloaded models.Cafe
	if err := conn.First(&reloaded, cafe.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Name != "New Name" {
		t.Errorf("name not updated: %q", reloaded.Name)
	}
	if reloaded.Date == "January 01, 2020" {
		t.Errorf("date stamp not refreshed")
	}
	// Editing never reassigns ownership.
	if reloaded.AuthorID != 7 {
		t.Errorf("author changed: %d", reloaded.AuthorID)
	}
}

func TestDeleteForbiddenForUnprivilegedUser(t *testing.T) {
	conn := setupTestDB(t)
	cafe := seedCafe(t, conn, "Keep Me", 3)
	h := newCafeHandler(conn)

	req := asUser(httptest.NewRequest(http.MethodGet, "/delete/1", nil), 3, "Eve")
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var count int64
	conn.Model(&models.Cafe{}).Where("id = ?", cafe.ID).Count(&count)
	if count != 1 {
		t.Fatalf("forbidden delete removed the cafe")
	}
}

func TestDeleteRemovesCafeAndComments(t *testing.T) {
	conn := setupTestDB(t)
	seedUser(t, conn, "ada@example.com", "pw", "Ada")
	cafe := seedCafe(t, conn, "Doomed Cafe", 1)
	for _, text := range []string{"first", "second"} {
		if err := conn.Create(&models.Comment{Text: text, AuthorID: 1, CafeID: cafe.ID}).Error; err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}
	h := newCafeHandler(conn)

	req := asUser(httptest.NewRequest(http.MethodGet, "/delete/1", nil), 2, "Admin")
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/find-cafes" {
		t.Fatalf("expected 303 to /find-cafes, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	var cafes, comments int64
	conn.Model(&models.Cafe{}).Count(&cafes)
	conn.Model(&models.Comment{}).Where("cafe_id = ?", cafe.ID).Count(&comments)
	if cafes != 0 || comments != 0 {
		t.Fatalf("cascade incomplete: cafes=%d comments=%d", cafes, comments)
	}
}

func TestAnonymousCommentNotPersisted(t *testing.T) {
	conn := setupTestDB(t)
	cafe := seedCafe(t, conn, "Quiet Cafe", 1)
	h := newCafeHandler(conn)

	req := postForm("/cafe/1", url.Values{"comment_text": {"drive-by"}})
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Show(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if got := flashMessage(t, rec); got != "You need to login or register to comment." {
		t.Fatalf("unexpected flash: %q", got)
	}
	var count int64
	conn.Model(&models.Comment{}).Where("cafe_id = ?", cafe.ID).Count(&count)
	if count != 0 {
		t.Fatalf("anonymous comment persisted")
	}
}

func TestAuthenticatedCommentPersisted(t *testing.T) {
	conn := setupTestDB(t)
	seedUser(t, conn, "ada@example.com", "pw", "Ada")
	cafe := seedCafe(t, conn, "Chatty Cafe", 1)
	h := newCafeHandler(conn)

	req := asUser(postForm("/cafe/1", url.Values{"comment_text": {"Lovely flat white."}}), 1, "Ada")
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Show(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/cafe/1" {
		t.Fatalf("expected 303 back to /cafe/1, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	var comment models.Comment
	if err := conn.Where("cafe_id = ?", cafe.ID).First(&comment).Error; err != nil {
		t.Fatalf("comment not persisted: %v", err)
	}
	if comment.Text != "Lovely flat white." || comment.AuthorID != 1 {
		t.Fatalf("unexpected comment: %+v", comment)
	}
}

func TestEmptyCommentRejected(t *testing.T) {
	conn := setupTestDB(t)
	seedUser(t, conn, "ada@example.com", "pw", "Ada")
	cafe := seedCafe(t, conn, "Strict Cafe", 1)
	h := newCafeHandler(conn)

	req := asUser(postForm("/cafe/1", url.Values{"comment_text": {"   "}}), 1, "Ada")
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Show(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var count int64
	conn.Model(&models.Comment{}).Where("cafe_id = ?", cafe.ID).Count(&count)
	if count != 0 {
		t.Fatalf("blank comment persisted")
	}
}

func TestShowUnknownCafe(t *testing.T) {
	conn := setupTestDB(t)
	h := newCafeHandler(conn)

	req := httptest.NewRequest(http.MethodGet, "/cafe/99", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()
	h.Show(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestShowRendersDetail(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn, "ada@example.com", "pw", "Ada")
	cafe := seedCafe(t, conn, "Detail Cafe", 1)
	if err := conn.Create(&models.Comment{Text: "Nice spot", AuthorID: user.ID, CafeID: cafe.ID}).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	h := newCafeHandler(conn)

	req := httptest.NewRequest(http.MethodGet, "/cafe/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Show(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Detail Cafe") {
		t.Errorf("detail page missing cafe name")
	}
	if !strings.Contains(body, "Nice spot") || !strings.Contains(body, "Ada") {
		t.Errorf("detail page missing comment or author name")
	}
}
