// ABOUTME: HTTP handlers for interactions and notifications
// ABOUTME: Dates arrive as YYYY-MM-DD or RFC 3339 strings
package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/models"
)

type interactionRequest struct {
	CustomerID      int64    `json:"customer_id" binding:"required"`
	ProjectID       *int64   `json:"project_id"`
	InteractionType string   `json:"interaction_type" binding:"required"`
	Description     string   `json:"description"`
	Notes           string   `json:"notes"`
	Date            string   `json:"date"`
	Duration        *float64 `json:"duration"`
}

func (s *Server) createInteraction(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	interaction := &models.Interaction{
		CustomerID:      req.CustomerID,
		ProjectID:       req.ProjectID,
		InteractionType: req.InteractionType,
		Description:     req.Description,
		Notes:           req.Notes,
		Duration:        req.Duration,
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	if date != nil {
		interaction.Date = *date
	}

	if err := db.CreateInteraction(c.Request.Context(), s.db, interaction); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, interaction)
}

func (s *Server) listCustomerInteractions(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	skip, limit := page(c)
	interactions, err := db.ListCustomerInteractions(c.Request.Context(), s.db, id, skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, interactions)
}

type notificationRequest struct {
	CustomerID  *int64 `json:"customer_id"`
	ProjectID   *int64 `json:"project_id"`
	Type        string `json:"type" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

func (s *Server) createNotification(c *gin.Context) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	due, err := models.ParseDate(req.DueDate)
	if err != nil {
		badRequest(c, err)
		return
	}

	notification := &models.Notification{
		CustomerID:  req.CustomerID,
		ProjectID:   req.ProjectID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
	}
	if err := db.CreateNotification(c.Request.Context(), s.db, notification); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (s *Server) listNotifications(c *gin.Context) {
	skip, limit := page(c)
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread_only", "false"))

	notifications, err := db.ListNotifications(c.Request.Context(), s.db, unreadOnly, skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (s *Server) markNotificationRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := db.MarkNotificationRead(c.Request.Context(), s.db, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
