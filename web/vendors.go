// ABOUTME: HTTP handlers for vendors and vendor-project links
// ABOUTME: A vendor still linked to projects cannot be deleted
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/models"
)

type vendorRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Specialty   string `json:"specialty"`
	IsActive    *bool  `json:"is_active"`
}

func (s *Server) createVendor(c *gin.Context) {
	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	vendor := &models.Vendor{
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Specialty:   req.Specialty,
		IsActive:    true,
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}

	if err := db.CreateVendor(c.Request.Context(), s.db, vendor); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (s *Server) listVendors(c *gin.Context) {
	skip, limit := page(c)
	vendors, err := db.ListVendors(c.Request.Context(), s.db, skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (s *Server) getVendor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	vendor, err := db.GetVendor(c.Request.Context(), s.db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (s *Server) deleteVendor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := db.DeleteVendor(c.Request.Context(), s.db, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})
}

type vendorLinkRequest struct {
	ProjectID int64  `json:"project_id" binding:"required"`
	Role      string `json:"role"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

func (s *Server) linkVendorProject(c *gin.Context) {
	vendorID, ok := idParam(c)
	if !ok {
		return
	}

	var req vendorLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	end, err := models.ParseDate(req.EndDate)
	if err != nil {
		badRequest(c, err)
		return
	}

	link := &models.VendorProject{
		VendorID:  vendorID,
		ProjectID: req.ProjectID,
		Role:      req.Role,
		StartDate: start,
		EndDate:   end,
		Status:    req.Status,
	}
	if err := db.LinkVendorProject(c.Request.Context(), s.db, link); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
