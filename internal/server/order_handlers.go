package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/orderdesk/internal/client"
	"github.com/orderdesk/orderdesk/internal/models"
	"github.com/orderdesk/orderdesk/internal/orders"
	"github.com/orderdesk/orderdesk/internal/session"
)

// orderPage is the data rendered by order_form.html
type orderPage struct {
	Title      string
	Identity   *session.Identity
	IsAdmin    bool
	Flash      *Flash
	Categories []client.Category
	Form       orders.Form
	Errors     orders.FieldErrors
	Recent     []models.Submission
}

// token returns the stored credential; a missing one yields an empty token
// and the backend's own rejection.
func (s *Server) token(c *gin.Context) string {
	token, _, err := s.sessions.Token()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read stored credential")
	}
	return token
}

// buildOrderPage loads categories and recent submissions for the form
func (s *Server) buildOrderPage(c *gin.Context, snapshot session.Session) *orderPage {
	page := &orderPage{
		Title:    "Create New Order",
		Identity: snapshot.Identity,
		IsAdmin:  snapshot.IsAdmin(),
		Flash:    popFlash(c),
	}

	categories, err := s.orders.Categories(c.Request.Context(), s.token(c))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to fetch categories")
		page.Flash = &Flash{Kind: "error", Message: "Failed to fetch categories"}
	}
	page.Categories = categories

	recent, err := s.orders.Recent(c.Request.Context(), snapshot.Identity.ID, recentSubmissions)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list recent submissions")
	}
	page.Recent = recent

	return page
}

func (s *Server) orderForm(c *gin.Context) {
	snapshot, _ := GetSession(c)
	c.HTML(http.StatusOK, "order_form.html", s.buildOrderPage(c, snapshot))
}

func (s *Server) createOrder(c *gin.Context) {
	snapshot, _ := GetSession(c)

	var form orders.Form
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "order_form.html", s.withForm(c, snapshot, form, nil, "Invalid form submission"))
		return
	}

	_, err := s.orders.Submit(c.Request.Context(), s.token(c), *snapshot.Identity, form)
	if err != nil {
		var verr *orders.ValidationError
		if errors.As(err, &verr) {
			c.HTML(http.StatusUnprocessableEntity, "order_form.html", s.withForm(c, snapshot, form, verr.Fields, ""))
			return
		}
		c.HTML(http.StatusBadGateway, "order_form.html",
			s.withForm(c, snapshot, form, nil, client.Message(err, "Failed to create order")))
		return
	}

	setFlash(c, "success", "Order created successfully!")
	c.Redirect(http.StatusSeeOther, userDashboardPath)
}

// withForm re-renders the form with the submitted values and any errors
func (s *Server) withForm(c *gin.Context, snapshot session.Session, form orders.Form, fields orders.FieldErrors, message string) *orderPage {
	page := s.buildOrderPage(c, snapshot)
	page.Form = form
	page.Errors = fields
	if message != "" {
		page.Flash = &Flash{Kind: "error", Message: message}
	}
	return page
}

func (s *Server) adminDashboard(c *gin.Context) {
	snapshot, _ := GetSession(c)

	submissions, err := s.orders.Recent(c.Request.Context(), "", 50)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list submissions")
		c.HTML(http.StatusInternalServerError, "admin.html", gin.H{
			"Title":    "Admin dashboard",
			"Identity": snapshot.Identity,
			"Flash":    &Flash{Kind: "error", Message: "Failed to load submissions"},
		})
		return
	}

	var total float64
	for _, sub := range submissions {
		total += sub.Amount
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title":       "Admin dashboard",
		"Identity":    snapshot.Identity,
		"Flash":       popFlash(c),
		"Submissions": submissions,
		"Total":       total,
	})
}
