package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/profileapp/profile-service/internal/api/middleware"
	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Welcome answers the landing route.
//
// @Summary      Landing page
// @Tags         profile
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func (h *AuthHandler) Welcome(c echo.Context) error {
	return c.String(http.StatusOK, "Welcome to Profile app")
}

// RegisterForm describes the registration form.
//
// @Summary      Registration form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  formResponse
// @Router       /register [get]
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, formResponse{
		Action: "/register",
		Method: http.MethodPost,
		Fields: []string{"name", "username", "email", "password"},
	})
}

// LoginForm describes the login form.
//
// @Summary      Login form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  formResponse
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, formResponse{
		Action: "/login",
		Method: http.MethodPost,
		Fields: []string{"loginId", "password"},
	})
}

// Register creates a new user account and redirects to the login page.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	in, err := decodeRegister(c)
	if err != nil {
		return err
	}

	if _, err := h.authService.Register(c.Request().Context(), in); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/login")
}

// Login authenticates the current session and redirects to the profile.
//
// @Summary      Login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials (email or username)"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidLogin
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrInvalidLogin
	}

	if _, err := h.authService.Login(c.Request().Context(), s.ID, req.LoginID, req.Password); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/profile")
}

// Logout terminates the current session and redirects to the login page.
//
// @Summary      Logout
// @Tags         auth
// @Success      302
// @Failure      429  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), s.ID); err != nil {
		return err
	}

	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusFound, "/login")
}

// Profile returns the authenticated user's profile.
//
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      429  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), s)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
	})
}

// decodeRegister reads the registration fields without coercing their
// types: JSON values keep their decoded kind, form values are strings and
// absent fields stay nil.
func decodeRegister(c echo.Context) (ports.RegisterInput, error) {
	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return ports.RegisterInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		return ports.RegisterInput{
			Name:     body["name"],
			Username: body["username"],
			Email:    body["email"],
			Password: body["password"],
		}, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return ports.RegisterInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	field := func(name string) any {
		if v, ok := form[name]; ok && len(v) > 0 {
			return v[0]
		}
		return nil
	}
	return ports.RegisterInput{
		Name:     field("name"),
		Username: field("username"),
		Email:    field("email"),
		Password: field("password"),
	}, nil
}
