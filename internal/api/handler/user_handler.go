package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/expensetrack/accounts-api/internal/api/metrics"
	"github.com/expensetrack/accounts-api/internal/core/domain"
	"github.com/expensetrack/accounts-api/internal/core/ports"
)

// LoginLimiter abstracts the failed-attempt throttle (Redis). The handler
// fails open when the limiter errors: a throttle outage must not lock
// everyone out.
type LoginLimiter interface {
	TooManyFailures(ctx context.Context, username string) (bool, error)
	NoteFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	service ports.UserService
	limiter LoginLimiter
	log     zerolog.Logger
}

func NewUserHandler(service ports.UserService, limiter LoginLimiter, log zerolog.Logger) *UserHandler {
	return &UserHandler{service: service, limiter: limiter, log: log}
}

// Authenticate checks credentials and returns a bearer token.
//
// @Summary      Authenticate with username and password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Credentials"
// @Success      200   {object}  authenticateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/users/authenticate [post]
func (h *UserHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()

	if h.limiter != nil {
		blocked, err := h.limiter.TooManyFailures(ctx, req.Username)
		if err != nil {
			h.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		} else if blocked {
			metrics.LoginThrottleTotal.Inc()
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many failed attempts, try again later"})
		}
	}

	result, err := h.service.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			if h.limiter != nil {
				if lerr := h.limiter.NoteFailure(ctx, req.Username); lerr != nil {
					h.log.Warn().Err(lerr).Msg("failed to record login failure")
				}
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.ErrInvalidCredentials.Error()})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	if h.limiter != nil {
		if lerr := h.limiter.Reset(ctx, req.Username); lerr != nil {
			h.log.Warn().Err(lerr).Msg("failed to reset login throttle")
		}
	}

	return c.JSON(http.StatusOK, authenticateResponse{
		ID:       result.ID,
		Username: result.Username,
		Role:     result.Role,
		Token:    result.Token,
	})
}

// Register creates a new Regular account.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  map[string]any
// @Router       /api/users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	summary, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		// Field-level failures surface through the central error handler.
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, toAccountResponse(*summary))
}

// List returns all accounts without their password digests.
//
// @Summary      List all accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	summaries, err := h.service.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]accountResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, toAccountResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}

// Update replaces an account's mutable fields, policy permitting.
//
// @Summary      Update an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Account id"
// @Param        body  body      updateRequest  true  "Replacement values"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	actor, err := actorUsername(c)
	if err != nil {
		return err
	}

	summary, err := h.service.UpdateAccount(c.Request().Context(), id, ports.UpdateAccountInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
	}, actor)
	if err != nil {
		return h.mutationError(c, err, "update")
	}

	return c.JSON(http.StatusOK, toAccountResponse(*summary))
}

// Delete removes an account and returns its last known state.
//
// @Summary      Delete an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Account id"
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	actor, err := actorUsername(c)
	if err != nil {
		return err
	}

	summary, err := h.service.DeleteAccount(c.Request().Context(), id, actor)
	if err != nil {
		return h.mutationError(c, err, "delete")
	}

	return c.JSON(http.StatusOK, toAccountResponse(*summary))
}

// mutationError renders the outcome of a denied or failed mutation. NotFound
// and Forbidden stay distinguishable so clients can tell "no such account"
// from "you may not touch this account".
func (h *UserHandler) mutationError(c echo.Context, err error, operation string) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "account not found"})
	case errors.Is(err, domain.ErrForbidden):
		metrics.MutationsDeniedTotal.WithLabelValues(operation).Inc()
		return c.JSON(http.StatusForbidden, map[string]string{"error": "operation not permitted"})
	case errors.Is(err, domain.ErrTokenInvalid):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}
	return err
}

// accountID parses the :id path parameter.
func accountID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}
