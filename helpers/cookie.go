package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/chmike/securecookie"
	"github.com/gin-gonic/gin"
)

// https://github.com/chmike/securecookie

// CookieConfig is read from the environment (JWTCK_NAME, JWTCK_HASHKEY)
type CookieConfig struct {
	Name    string
	HashKey []byte
	Secure  bool // cookie received only with HTTPS, never with HTTP
	MaxAge  int  // seconds
}

func (cc CookieConfig) params(maxAge int) securecookie.Params {
	return securecookie.Params{
		Path:     "/",    // cookie received only when URL starts with this path
		Domain:   "",     // cookie received only when URL domain matches this one
		MaxAge:   maxAge, // seconds; negative deletes the cookie
		HTTPOnly: true,   // disallow access by remote javascript code
		Secure:   cc.Secure,
		SameSite: securecookie.Lax,
	}
}

// SetCookie stores value as JSON in the signed cookie
func SetCookie(c *gin.Context, cc CookieConfig, value interface{}) error {
	maxAge := cc.MaxAge
	if maxAge == 0 {
		maxAge = 3600 * 24 * 7
	}

	sck, err := securecookie.New(cc.Name, cc.HashKey, cc.params(maxAge))
	if err != nil {
		return err
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return sck.SetValue(c.Writer, b)
}

// GetCookie returns the raw (JSON) value of the cookie
func GetCookie(r *http.Request, cc CookieConfig) ([]byte, error) {
	sck, err := securecookie.New(cc.Name, cc.HashKey, cc.params(3600))
	if err != nil {
		return nil, err
	}

	return sck.GetValue(nil, r)
}

// DelCookie sets a new cookie with the same name and negative MaxAge
func DelCookie(c *gin.Context, cc CookieConfig) error {
	sck, err := securecookie.New(cc.Name, cc.HashKey, cc.params(-1))
	if err != nil {
		return err
	}

	return sck.Delete(c.Writer)
}
