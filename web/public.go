// ABOUTME: Public intake and dashboard endpoints
// ABOUTME: A lead whose notification failed still answers 200 with status "partial"
package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/buildcrm/intake"
	"github.com/harperreed/buildcrm/viz"
)

func (s *Server) submitWebsiteForm(c *gin.Context) {
	var form intake.WebsiteForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err)
		return
	}

	lead, err := s.intake.SubmitWebsiteForm(c.Request.Context(), form)
	if errors.Is(err, intake.ErrNotificationFailed) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "partial",
			"message": "Form submitted, but the follow-up notification could not be created",
			"lead_id": lead.ID,
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Form submitted successfully",
		"lead_id": lead.ID,
	})
}

func (s *Server) dashboardStats(c *gin.Context) {
	stats, err := viz.GenerateDashboardStats(c.Request.Context(), s.db)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
