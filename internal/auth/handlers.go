package auth

import (
	"context"
	"errors"
	"strconv"

	"verdra-backend/internal/middleware"
	"verdra-backend/internal/models"
	"verdra-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for the auth endpoints.
type Handlers struct {
	Service *Service
	Store   *store.Store
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register POST /api/register — create the user, log them in, answer 201
// with the user object (passport-local register flow).
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(ErrCredentialsRequired.Error())
	}

	user, err := h.Service.Register(c.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrCredentialsRequired), errors.Is(err, ErrUsernameTaken):
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		log.Error().Str("trace_id", middleware.GetTraceID(c)).Err(err).Msg("registration failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	h.establishSession(c, user)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login POST /api/login — verify credentials, create a fresh session.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(ErrCredentialsRequired.Error())
	}

	user, err := h.Service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrCredentialsRequired):
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		case errors.Is(err, ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).SendString(err.Error())
		}
		log.Error().Str("trace_id", middleware.GetTraceID(c)).Err(err).Msg("login failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	h.establishSession(c, user)
	return c.JSON(user)
}

// Logout POST /api/logout — drop the session set entry, delete the Redis
// key, clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := context.Background()

	if userID, ok := middleware.SessionUserID(c); ok && sessionID != "" {
		_ = h.Rdb.SRem(ctx, userSessionsPrefix+itoa(userID), sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return c.SendStatus(fiber.StatusOK)
}

// CurrentUser GET /api/user — the logged-in user, freshly loaded so the
// balance reflects every settled trade.
func (h *Handlers) CurrentUser(c *fiber.Ctx) error {
	userID, ok := middleware.SessionUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}
	user, err := h.Store.GetUser(c.Context(), userID)
	if err != nil {
		log.Error().Str("trace_id", middleware.GetTraceID(c)).Int("user_id", userID).Err(err).Msg("user lookup failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}
	return c.JSON(user)
}

// establishSession regenerates the session id, stores the user in the
// session, tracks the session under user_sessions:<id>, and sets the cookie.
func (h *Handlers) establishSession(c *fiber.Ctx, user *models.User) {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		ID:       user.ID,
		Username: user.Username,
	})
	if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+itoa(user.ID), sessionID).Err(); err != nil {
		log.Error().Int("user_id", user.ID).Err(err).Msg("session tracking failed")
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
