package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/orderdesk/internal/client"
	"github.com/orderdesk/orderdesk/internal/session"
)

// LoginForm represents the sign-in form
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// RegisterForm represents the registration form
type RegisterForm struct {
	Name     string `form:"name" binding:"required"`
	Lastname string `form:"lastname" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	Role     string `form:"role" binding:"required,oneof=user admin"`
}

// landingFor picks where a freshly signed-in identity goes
func landingFor(snapshot session.Session) string {
	if snapshot.IsAdmin() {
		return adminDashboardPath
	}
	return userDashboardPath
}

// authFailureStatus maps a failed login/registration to a response status
func authFailureStatus(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return apiErr.StatusCode
	}
	if errors.Is(err, session.ErrSuperseded) {
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func (s *Server) loginPage(c *gin.Context) {
	if snapshot := s.sessions.Snapshot(); snapshot.Authenticated {
		c.Redirect(http.StatusSeeOther, landingFor(snapshot))
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Sign in",
		"Email": "",
		"Flash": popFlash(c),
	})
}

func (s *Server) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Title": "Sign in",
			"Email": form.Email,
			"Error": "A valid email and password are required",
		})
		return
	}

	if err := s.sessions.Login(c.Request.Context(), form.Email, form.Password); err != nil {
		s.logger.Warn().Err(err).Str("email", form.Email).Msg("Login failed")
		c.HTML(authFailureStatus(err), "login.html", gin.H{
			"Title": "Sign in",
			"Email": form.Email,
			"Error": client.Message(err, "Login failed"),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, landingFor(s.sessions.Snapshot()))
}

func (s *Server) registerPage(c *gin.Context) {
	if snapshot := s.sessions.Snapshot(); snapshot.Authenticated {
		c.Redirect(http.StatusSeeOther, landingFor(snapshot))
		return
	}
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Title": "Create account",
		"Form":  RegisterForm{Role: string(session.RoleUser)},
	})
}

func (s *Server) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Title": "Create account",
			"Form":  form,
			"Error": "All fields are required; passwords need at least 6 characters",
		})
		return
	}

	err := s.sessions.Register(c.Request.Context(), client.RegisterRequest{
		Name:     form.Name,
		Lastname: form.Lastname,
		Email:    form.Email,
		Password: form.Password,
		Role:     form.Role,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("email", form.Email).Msg("Registration failed")
		form.Password = ""
		c.HTML(authFailureStatus(err), "register.html", gin.H{
			"Title": "Create account",
			"Form":  form,
			"Error": client.Message(err, "Registration failed"),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, landingFor(s.sessions.Snapshot()))
}

func (s *Server) logout(c *gin.Context) {
	s.sessions.Logout()
	c.Redirect(http.StatusSeeOther, loginPath)
}
