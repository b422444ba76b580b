package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// actorUsername extracts the subject username injected by the Auth middleware
// and fails fast when it is absent: presence proves the middleware ran, and
// every mutation needs an actor to evaluate the policy against.
func actorUsername(c echo.Context) (string, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}
