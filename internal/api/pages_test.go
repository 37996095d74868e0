package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusportal/internal/model"
	"campusportal/internal/portal"
	"campusportal/internal/repo"
	"campusportal/internal/service"
)

func newTestPortal(t *testing.T) (*gin.Engine, repo.EventStore, repo.RegistrationStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	log := zerolog.Nop()
	events := repo.NewEventStore(dir, &log)
	regs := repo.NewRegistrationStore(dir, &log)
	accounts := repo.NewAccountStore(dir, &log)

	svc := service.NewService(events, regs, accounts, &log, nil)
	pages := portal.NewPages(events, regs, accounts, &log, nil)
	app := NewRouters(&Routers{
		Service:       svc,
		Pages:         pages,
		Log:           &log,
		TemplatesGlob: "../../web/templates/*.tmpl",
	})
	return app, events, regs
}

func get(app *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func postForm(app *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func adminCookie(t *testing.T, app *gin.Engine) *http.Cookie {
	t.Helper()
	rec := postForm(app, "/signup", url.Values{
		"role": {"admin"}, "name": {"Priya"}, "email": {"priya@x.com"},
		"password": {"secret1"}, "confirm": {"secret1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(app, "/login", url.Values{
		"role": {"admin"}, "email": {"priya@x.com"}, "password": {"secret1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin", rec.Header().Get("Location"))

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "portal_session" {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestIndexRendersEventCards(t *testing.T) {
	app, events, _ := newTestPortal(t)
	events.Create(&model.Event{Title: "Annual Fest", Category: "campus", Date: "2026-09-05", Excerpt: "music"})
	events.Create(&model.Event{Title: "Tech Expo", Category: "tech", Date: "2026-09-09", Excerpt: "demos"})

	rec := get(app, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Annual Fest")
	assert.Contains(t, rec.Body.String(), "Tech Expo")

	rec = get(app, "/?category=tech")
	assert.Contains(t, rec.Body.String(), "Tech Expo")
	assert.NotContains(t, rec.Body.String(), "Annual Fest")

	rec = get(app, "/?q=nothing-matches")
	assert.Contains(t, rec.Body.String(), "No events match")
}

func TestEventDetailPage(t *testing.T) {
	app, events, _ := newTestPortal(t)
	events.Create(&model.Event{Title: "Annual Fest", Category: "campus", Date: "2026-09-05", Content: "music and stalls", Location: "Quad"})

	rec := get(app, "/events/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "music and stalls")

	rec = get(app, "/events/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Event not found")
}

func TestSubmitRegistrationForm(t *testing.T) {
	app, events, regs := newTestPortal(t)
	events.Create(&model.Event{Title: "Annual Fest", Category: "campus", Date: "2026-09-05"})

	rec := postForm(app, "/register/1", url.Values{"name": {"Asha"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name and email are required.")

	rec = postForm(app, "/register/1", url.Values{"name": {"Asha"}, "email": {"asha@x.com"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Registration received!")
	assert.Len(t, regs.List(1), 1)

	rec = postForm(app, "/register/42", url.Values{"name": {"Asha"}, "email": {"asha@x.com"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminPagesRequireAdminRole(t *testing.T) {
	app, _, _ := newTestPortal(t)

	rec := get(app, "/admin")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = get(app, "/admin/registrations")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestAdminDashboardAndEventForm(t *testing.T) {
	app, events, _ := newTestPortal(t)
	cookie := adminCookie(t, app)

	rec := get(app, "/admin", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin Dashboard")

	// Missing required fields bounce back with the error inline.
	rec = postForm(app, "/admin/events", url.Values{"title": {"Fest"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "Missing fields: category, date, excerpt, content", loc.Query().Get("error"))

	rec = postForm(app, "/admin/events", url.Values{
		"title": {"Fest"}, "category": {"campus"}, "date": {"2026-09-05"},
		"excerpt": {"music"}, "content": {"stalls"},
		"speakers": {"Dr. Rao, Prof. Iyer"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin?saved=1", rec.Header().Get("Location"))

	created, err := events.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Rao", "Prof. Iyer"}, created.Speakers)
}

func TestAdminModerationFlow(t *testing.T) {
	app, events, regs := newTestPortal(t)
	cookie := adminCookie(t, app)

	event := events.Create(&model.Event{Title: "Fest", Category: "campus", Date: "2026-09-05"})
	reg := regs.Create(&model.Registration{EventID: event.ID, Name: "Asha", Email: "asha@x.com"})

	rec := get(app, "/admin/registrations", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asha")

	rec = postForm(app, "/admin/registrations/"+formatInt64(reg.ID)+"/status", url.Values{"status": {"accepted"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	updated, err := regs.Get(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, updated.Status)

	// Deleting the event leaves the registration row with placeholders.
	require.NoError(t, events.Delete(event.ID))
	rec = get(app, "/admin/registrations", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Event #1")
}

func TestLoginPageMessages(t *testing.T) {
	app, _, _ := newTestPortal(t)

	rec := get(app, "/login?signup=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signup completed. Please log in to continue.")

	rec = postForm(app, "/login", url.Values{
		"role": {"student"}, "email": {"nobody@x.com"}, "password": {"secret1"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials.")
}

func TestSignupPageValidation(t *testing.T) {
	app, _, _ := newTestPortal(t)

	rec := postForm(app, "/signup", url.Values{
		"role": {"student"}, "name": {"Asha"}, "email": {"asha@x.com"},
		"password": {"short"}, "confirm": {"short"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at least 6 characters.")
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}
