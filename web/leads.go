// ABOUTME: HTTP handlers for leads, status updates, and conversion
// ABOUTME: Status changes go through the configured transition policy
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/models"
)

type leadRequest struct {
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	Source        string   `json:"source"`
	ProjectType   string   `json:"project_type"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	Notes         string   `json:"notes"`
	NextFollowUp  string   `json:"next_follow_up"`
	ExpectedValue *float64 `json:"expected_value"`
}

func (s *Server) createLead(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	followUp, err := models.ParseDate(req.NextFollowUp)
	if err != nil {
		badRequest(c, err)
		return
	}

	lead := &models.Lead{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Source:        req.Source,
		ProjectType:   req.ProjectType,
		Description:   req.Description,
		Status:        models.ParseLeadStatus(req.Status),
		Notes:         req.Notes,
		NextFollowUp:  followUp,
		ExpectedValue: req.ExpectedValue,
	}
	if err := db.CreateLead(c.Request.Context(), s.db, lead); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (s *Server) listLeads(c *gin.Context) {
	skip, limit := page(c)
	status := models.ParseLeadStatus(c.Query("status"))

	leads, err := db.ListLeads(c.Request.Context(), s.db, status, skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (s *Server) getLead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	lead, err := db.GetLead(c.Request.Context(), s.db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (s *Server) deleteLead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := db.DeleteLead(c.Request.Context(), s.db, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}

type leadStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	Notes        string `json:"notes"`
	NextFollowUp string `json:"next_follow_up"`
}

func (s *Server) updateLeadStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req leadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	followUp, err := models.ParseDate(req.NextFollowUp)
	if err != nil {
		badRequest(c, err)
		return
	}

	update := db.LeadStatusUpdate{
		Status:       models.ParseLeadStatus(req.Status),
		NextFollowUp: followUp,
	}
	if req.Notes != "" {
		update.Notes = &req.Notes
	}

	lead, err := db.UpdateLeadStatus(c.Request.Context(), s.db, id, update, s.policy)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead status updated successfully", "lead": lead})
}

func (s *Server) convertLead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	customer, created, err := db.ConvertLeadToCustomer(c.Request.Context(), s.db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if created {
		s.metrics.LeadConverted()
		s.log.Info("lead converted", "lead_id", id, "customer_id", customer.ID)
	}

	c.JSON(http.StatusOK, customer)
}
