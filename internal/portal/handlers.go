package portal

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"campusportal/internal/dto"
	"campusportal/internal/model"
	"campusportal/internal/repo"
	"campusportal/internal/service"
)

// Categories offered by the list-view tabs and the admin form.
var Categories = []string{
	"campus", "academics", "sports", "events", "tech",
	"hackathon", "placements", "seminar", "competition",
}

// Pages renders the server-side portal views over the same stores the API
// uses. Every handler resolves the session identity once and passes it into
// the render explicitly.
type Pages struct {
	events   repo.EventStore
	regs     repo.RegistrationStore
	accounts repo.AccountStore
	log      *zerolog.Logger
	notices  service.NoticePublisher
}

func NewPages(events repo.EventStore, regs repo.RegistrationStore, accounts repo.AccountStore, log *zerolog.Logger, notices service.NoticePublisher) *Pages {
	return &Pages{events: events, regs: regs, accounts: accounts, log: log, notices: notices}
}

// Index renders the event grid. Filtering happens per request; the page form
// resubmits on every control change, which replaces the original's
// per-keystroke re-render with identical match rules.
func (p *Pages) Index(c *gin.Context) {
	state := NewViewState(c.Query("category"), c.Query("q"))
	events := p.events.List("", "")
	visible := VisibleEvents(events, state)

	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Identity":   CurrentIdentity(c),
		"State":      state,
		"Events":     visible,
		"Categories": Categories,
	})
}

func (p *Pages) EventDetail(c *gin.Context) {
	ident := CurrentIdentity(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		if event, getErr := p.events.Get(id); getErr == nil {
			c.HTML(http.StatusOK, "event.tmpl", gin.H{
				"Identity": ident,
				"Event":    event,
			})
			return
		}
	}
	c.HTML(http.StatusNotFound, "event.tmpl", gin.H{
		"Identity": ident,
		"Error":    "Event not found",
	})
}

func (p *Pages) RegisterForm(c *gin.Context) {
	p.renderRegister(c, http.StatusOK, "", false)
}

// SubmitRegistration handles the sign-up form. It mirrors the API semantics:
// name and email are required, the event must still exist, everything else
// defaults to empty.
func (p *Pages) SubmitRegistration(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		p.renderRegister(c, http.StatusNotFound, "Event not found for registration", true)
		return
	}
	if _, err := p.events.Get(id); err != nil {
		p.renderRegister(c, http.StatusNotFound, "Event not found for registration", true)
		return
	}

	req := dto.CreateRegistrationRequest{
		EventID:    id,
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Department: c.PostForm("department"),
		Year:       c.PostForm("year"),
		Phone:      c.PostForm("phone"),
		Notes:      c.PostForm("notes"),
	}
	if req.Name == "" || req.Email == "" {
		p.renderRegister(c, http.StatusBadRequest, "Name and email are required.", true)
		return
	}

	created := p.regs.Create(req.ToRegistration())
	p.log.Info().Int64("registration_id", created.ID).Int("event_id", id).Msg("registration created via portal")
	service.PublishNotice(p.notices, p.log, created)

	p.renderRegister(c, http.StatusOK, "Registration received! Watch your inbox for the confirmation.", false)
}

func (p *Pages) renderRegister(c *gin.Context, code int, status string, isError bool) {
	ident := CurrentIdentity(c)
	data := gin.H{
		"Identity":    ident,
		"Status":      status,
		"StatusError": isError,
	}
	if id, err := strconv.Atoi(c.Param("id")); err == nil {
		if event, getErr := p.events.Get(id); getErr == nil {
			data["Event"] = event
		}
	}
	c.HTML(code, "register.tmpl", data)
}

// AdminDashboard shows headline metrics, the create-event form and the
// moderation table of existing events.
func (p *Pages) AdminDashboard(c *gin.Context) {
	events := p.events.List("", "")
	regs := p.regs.List(0)

	c.HTML(http.StatusOK, "admin.tmpl", gin.H{
		"Identity":   CurrentIdentity(c),
		"Metrics":    DashboardMetrics(events, regs, time.Now()),
		"Events":     events,
		"Categories": Categories,
		"Saved":      c.Query("saved") != "",
		"Error":      c.Query("error"),
	})
}

// CreateEventForm accepts the admin form post, reusing the API's required
// fields and normalization, then redirects back with an inline status.
func (p *Pages) CreateEventForm(c *gin.Context) {
	req := dto.CreateEventRequest{
		Title:            c.PostForm("title"),
		Category:         c.PostForm("category"),
		Date:             c.PostForm("date"),
		Excerpt:          c.PostForm("excerpt"),
		Content:          c.PostForm("content"),
		Location:         c.PostForm("location"),
		StartTime:        c.PostForm("startTime"),
		EndTime:          c.PostForm("endTime"),
		Speakers:         dto.StringList(dto.SplitList(c.PostForm("speakers"))),
		RegistrationLink: c.PostForm("registrationLink"),
		ContactEmail:     c.PostForm("contactEmail"),
		Highlights:       dto.StringList(dto.SplitList(c.PostForm("highlights"))),
	}

	var missing []string
	for _, field := range [][2]string{
		{"title", req.Title}, {"category", req.Category}, {"date", req.Date},
		{"excerpt", req.Excerpt}, {"content", req.Content},
	} {
		if field[1] == "" {
			missing = append(missing, field[0])
		}
	}
	if len(missing) > 0 {
		msg := "Missing fields: " + strings.Join(missing, ", ")
		c.Redirect(http.StatusSeeOther, "/admin?error="+url.QueryEscape(msg))
		return
	}

	created := p.events.Create(req.ToEvent())
	p.log.Info().Int("event_id", created.ID).Msg("event created via portal")
	c.Redirect(http.StatusSeeOther, "/admin?saved=1")
}

func (p *Pages) DeleteEventForm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		err = p.events.Delete(id)
	}
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/admin?error="+url.QueryEscape("Event not found"))
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

// RegistrationRow pairs a registration with the event details the moderation
// table shows next to it. Dangling event references render as placeholders.
type RegistrationRow struct {
	Registration model.Registration
	EventTitle   string
	EventDate    string
	EventLoc     string
}

// AdminRegistrations renders the moderation view with term, status and
// per-event filters.
func (p *Pages) AdminRegistrations(c *gin.Context) {
	filter := RegistrationFilter{
		Term:    c.Query("term"),
		Status:  c.DefaultQuery("status", "all"),
		EventID: c.DefaultQuery("event", "all"),
	}

	events := p.events.List("", "")
	regs := p.regs.List(0)
	filtered := FilterRegistrations(regs, filter)

	byID := make(map[int]model.Event, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	rows := make([]RegistrationRow, 0, len(filtered))
	for _, reg := range filtered {
		row := RegistrationRow{Registration: reg}
		if ev, ok := byID[reg.EventID]; ok {
			row.EventTitle = ev.Title
			row.EventDate = ev.Date
			row.EventLoc = ev.Location
		} else {
			row.EventTitle = "Event #" + strconv.Itoa(reg.EventID)
			row.EventLoc = "TBA"
		}
		rows = append(rows, row)
	}

	c.HTML(http.StatusOK, "registrations.tmpl", gin.H{
		"Identity": CurrentIdentity(c),
		"Metrics":  CountRegistrations(regs),
		"Rows":     rows,
		"Events":   events,
		"Filter":   filter,
	})
}

func (p *Pages) UpdateRegistrationStatusForm(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	updated, err := p.regs.UpdateStatus(id, c.PostForm("status"))
	if err == nil {
		service.PublishNotice(p.notices, p.log, updated)
	} else {
		p.log.Warn().Err(err).Int64("registration_id", id).Msg("moderation update failed")
	}
	c.Redirect(http.StatusSeeOther, "/admin/registrations")
}

func (p *Pages) LoginForm(c *gin.Context) {
	status := ""
	if c.Query("signup") != "" {
		status = "Signup completed. Please log in to continue."
	}
	// Visiting the login page always drops the previous session.
	ClearIdentity(c)
	c.HTML(http.StatusOK, "login.tmpl", gin.H{"Status": status})
}

func (p *Pages) SubmitLogin(c *gin.Context) {
	role := c.PostForm("role")
	email := c.PostForm("email")
	password := c.PostForm("password")
	if role == "" || email == "" || password == "" {
		c.HTML(http.StatusBadRequest, "login.tmpl", gin.H{"Status": "Please complete all fields.", "StatusError": true})
		return
	}

	account, err := p.accounts.GetByEmail(email)
	if err != nil || account.Role != role {
		c.HTML(http.StatusUnauthorized, "login.tmpl", gin.H{"Status": "Invalid credentials. Please check your email, password, or role.", "StatusError": true})
		return
	}
	if account.Password != password {
		c.HTML(http.StatusUnauthorized, "login.tmpl", gin.H{"Status": "Incorrect password for this account.", "StatusError": true})
		return
	}

	SetIdentity(c, Identity{
		Role:       account.Role,
		Email:      account.Email,
		Name:       account.Name,
		Photo:      account.Photo,
		Department: account.Department,
		Year:       account.Year,
		Phone:      account.Phone,
	})
	if account.Role == "admin" {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (p *Pages) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.tmpl", gin.H{})
}

func (p *Pages) SubmitSignup(c *gin.Context) {
	role := c.PostForm("role")
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirm := c.PostForm("confirm")

	fail := func(msg string) {
		c.HTML(http.StatusBadRequest, "signup.tmpl", gin.H{"Status": msg, "StatusError": true})
	}
	if role == "" || name == "" || email == "" || password == "" || confirm == "" {
		fail("Please complete every field.")
		return
	}
	if len(password) < 6 {
		fail("Password must be at least 6 characters.")
		return
	}
	if password != confirm {
		fail("Passwords do not match.")
		return
	}

	account := &model.Account{
		Name:        name,
		Email:       email,
		Password:    password,
		Role:        role,
		SocialLinks: []string{},
	}
	if err := p.accounts.Create(account); err != nil {
		fail("An account with this email already exists. Please login instead.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/login?signup=1")
}

func (p *Pages) Logout(c *gin.Context) {
	ClearIdentity(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
