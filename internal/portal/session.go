package portal

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "portal_session"

// Identity is the session context for one signed-in user. It is resolved
// once per request and passed explicitly into every page render; nothing
// reads it ambiently. The cookie is plain encoded state, in line with the
// portal's no-real-authentication stance.
type Identity struct {
	Role       string `json:"role"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Photo      string `json:"photo"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Phone      string `json:"phone"`
}

func (id Identity) LoggedIn() bool {
	return id.Role != ""
}

// RoleLabel is the display form used in page headers.
func (id Identity) RoleLabel() string {
	if id.Role == "admin" {
		return "Admin"
	}
	return "Student"
}

// Initial is the avatar letter: first rune of the name, upper-cased.
func (id Identity) Initial() string {
	name := strings.TrimSpace(id.Name)
	if name == "" {
		return "S"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// CurrentIdentity decodes the session cookie. A missing or mangled cookie
// yields the zero Identity, i.e. logged out.
func CurrentIdentity(c *gin.Context) Identity {
	raw, err := c.Cookie(sessionCookie)
	if err != nil {
		return Identity{}
	}
	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return Identity{}
	}
	var ident Identity
	if err := json.Unmarshal(decoded, &ident); err != nil {
		return Identity{}
	}
	return ident
}

// SetIdentity writes the session cookie for the rest of the browser session.
func SetIdentity(c *gin.Context, ident Identity) {
	payload, _ := json.Marshal(ident)
	c.SetCookie(sessionCookie, base64.URLEncoding.EncodeToString(payload), 0, "/", "", false, true)
}

// ClearIdentity logs the user out.
func ClearIdentity(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// RequireRoles gates a page on the active role: anonymous visitors are sent
// to the login page, signed-in users with the wrong role to their own home.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := CurrentIdentity(c)
		if !ident.LoggedIn() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		for _, role := range roles {
			if ident.Role == role {
				c.Next()
				return
			}
		}
		home := "/"
		if ident.Role == "admin" {
			home = "/admin"
		}
		c.Redirect(http.StatusFound, home)
		c.Abort()
	}
}
