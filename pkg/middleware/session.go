package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookie = "CROPCAST_SID"
	SessionKey    = "sid"
)

// Session makes sure every request carries a session id, issuing a fresh
// UUID cookie when the browser has none or sends a malformed one.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(SessionCookie); err == nil {
				if _, err := uuid.Parse(ck.Value); err == nil {
					sid = ck.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(SessionKey, sid)
			return next(c)
		}
	}
}

// SessionID returns the id stored by Session, or "".
func SessionID(c echo.Context) string {
	sid, _ := c.Get(SessionKey).(string)
	return sid
}
