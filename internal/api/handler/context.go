package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/habittracker/habit-tracker-backend/internal/core/ports"
)

// ctxActor extracts the auth claims injected by the Auth middleware. Both
// user_id and role must be present before any service call happens.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Actor{UserID: userID, Role: role}, nil
}
