package dto

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campusportal/internal/model"
)

const (
	MsgEventNotFound        = "Event not found"
	MsgEventNotFoundForReg  = "Event not found for registration"
	MsgEventDeleted         = "Event deleted"
	MsgRegistrationSaved    = "Registration saved"
	MsgRegistrationUpdated  = "Registration updated"
	MsgRegistrationNotFound = "Registration not found"
	MsgInvalidStatus        = "Invalid status value"
	MsgInvalidJSON          = "Invalid JSON format"
	MsgInternalError        = "Service is currently unavailable. Please try again later."
)

// StringList accepts either a JSON array of strings or a single
// comma-separated string. Admin forms post the comma form; the API also
// accepts pre-split arrays, which are kept verbatim.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = SplitList(s)
	return nil
}

// Values returns a never-nil slice so the field marshals as [] rather than null.
func (l StringList) Values() []string {
	if l == nil {
		return []string{}
	}
	return l
}

// SplitList splits on commas, trims each entry and drops empties.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type CreateEventRequest struct {
	Title            string     `json:"title" validate:"required"`
	Category         string     `json:"category" validate:"required"`
	Date             string     `json:"date" validate:"required"`
	Excerpt          string     `json:"excerpt" validate:"required"`
	Content          string     `json:"content" validate:"required"`
	Location         string     `json:"location"`
	StartTime        string     `json:"startTime"`
	EndTime          string     `json:"endTime"`
	Speakers         StringList `json:"speakers"`
	RegistrationLink string     `json:"registrationLink"`
	ContactEmail     string     `json:"contactEmail"`
	Highlights       StringList `json:"highlights"`
	Color1           string     `json:"color1"`
	Color2           string     `json:"color2"`
}

// ToEvent applies the portal's normalization and server-side defaults:
// trimmed text, lower-cased category, announced fallbacks for the optional
// venue and contact fields, and the two display colors.
func (r CreateEventRequest) ToEvent() *model.Event {
	return &model.Event{
		Title:            strings.TrimSpace(r.Title),
		Category:         strings.ToLower(strings.TrimSpace(r.Category)),
		Date:             r.Date,
		Excerpt:          strings.TrimSpace(r.Excerpt),
		Content:          strings.TrimSpace(r.Content),
		Location:         defaultString(r.Location, "To be announced"),
		StartTime:        defaultString(r.StartTime, "09:00"),
		EndTime:          defaultString(r.EndTime, "17:00"),
		Speakers:         r.Speakers.Values(),
		RegistrationLink: r.RegistrationLink,
		ContactEmail:     defaultString(r.ContactEmail, "events@mitmysore.edu"),
		Highlights:       r.Highlights.Values(),
		Color1:           defaultString(r.Color1, "#ff7ab6"),
		Color2:           defaultString(r.Color2, "#7afcff"),
	}
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

type CreateRegistrationRequest struct {
	EventID    int    `json:"eventId" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Phone      string `json:"phone"`
	Notes      string `json:"notes"`
}

// ToRegistration normalizes the registrant fields; id, status and timestamps
// are stamped by the store.
func (r CreateRegistrationRequest) ToRegistration() *model.Registration {
	return &model.Registration{
		EventID:    r.EventID,
		Name:       strings.TrimSpace(r.Name),
		Email:      strings.ToLower(strings.TrimSpace(r.Email)),
		Department: r.Department,
		Year:       r.Year,
		Phone:      r.Phone,
		Notes:      r.Notes,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type SignupRequest struct {
	Role     string `json:"role" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"confirm" validate:"required"`
}

type LoginRequest struct {
	Role     string `json:"role" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Email       string     `json:"email" validate:"required"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Department  string     `json:"department"`
	Year        string     `json:"year"`
	Bio         string     `json:"bio"`
	Photo       string     `json:"photo"`
	SocialLinks StringList `json:"socialLinks"`
}

// IdentityResponse is the session/identity payload handed to the client on
// login. It mirrors the fields every portal page needs for display.
type IdentityResponse struct {
	Role       string `json:"role"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Photo      string `json:"photo"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Phone      string `json:"phone"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// RegistrationEnvelope wraps write responses on the registrations resource.
type RegistrationEnvelope struct {
	Message      string             `json:"message"`
	Registration model.Registration `json:"registration"`
}

// RegistrationNoticeMessage is the queue payload emitted on registration
// creation and on every status change, consumed by the notifier worker.
type RegistrationNoticeMessage struct {
	RegistrationID int64  `json:"registration_id"`
	EventID        int    `json:"event_id"`
	Status         string `json:"status"`
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, MessageResponse{Message: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, MessageResponse{Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, MessageResponse{Message: message})
}

func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, MessageResponse{Message: message})
}

func InternalServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, MessageResponse{Message: MsgInternalError})
}

// MissingFieldsError names every absent required field, comma separated.
func MissingFieldsError(c *gin.Context, fields []string) {
	BadRequest(c, "Missing fields: "+strings.Join(fields, ", "))
}
