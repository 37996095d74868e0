package model

import "time"

// Event is a campus happening exposed to students. Records are immutable
// after creation except for full deletion; there is no update endpoint.
type Event struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	Category         string   `json:"category"`
	Date             string   `json:"date"`
	Excerpt          string   `json:"excerpt"`
	Content          string   `json:"content"`
	Location         string   `json:"location"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	Speakers         []string `json:"speakers"`
	RegistrationLink string   `json:"registrationLink"`
	ContactEmail     string   `json:"contactEmail"`
	Highlights       []string `json:"highlights"`
	Color1           string   `json:"color1"`
	Color2           string   `json:"color2"`
}

// Registration statuses. Transitions are unrestricted within this set.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Registration is a student's sign-up request against one Event. The eventId
// is checked against the event store at creation time only; deleting the
// event later leaves the registration dangling.
type Registration struct {
	ID         int64     `json:"id"`
	EventID    int       `json:"eventId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Year       string    `json:"year"`
	Phone      string    `json:"phone"`
	Notes      string    `json:"notes"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Account is a portal login profile, keyed by lower-cased email. Passwords
// are stored as plain text; the portal deliberately carries no real
// authentication layer.
type Account struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Phone       string   `json:"phone"`
	Department  string   `json:"department"`
	Year        string   `json:"year"`
	Bio         string   `json:"bio"`
	Photo       string   `json:"photo"`
	SocialLinks []string `json:"socialLinks"`
}
