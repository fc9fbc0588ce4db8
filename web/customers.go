// ABOUTME: HTTP handlers for customers and projects
// ABOUTME: Deletes run the cascade engine and return its per-table report
package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/models"
)

type customerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

func (s *Server) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customer := &models.Customer{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: true,
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	if err := db.CreateCustomer(c.Request.Context(), s.db, customer); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) listCustomers(c *gin.Context) {
	skip, limit := page(c)
	customers, err := db.ListCustomers(c.Request.Context(), s.db, skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (s *Server) getCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	customer, err := db.GetCustomerWithProjects(c.Request.Context(), s.db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) listCustomerProjects(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	skip, limit := page(c)
	projects, err := db.ListCustomerProjects(c.Request.Context(), s.db, id, skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) deleteCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	report, err := db.DeleteCustomer(c.Request.Context(), s.db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	s.metrics.CascadeDeleted(report.Deleted)
	s.log.Info("customer deleted", "customer_id", id, "rows", report.Total())

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Customer %d and all related records deleted successfully", id),
		"deleted": report.Deleted,
		"order":   report.Order,
	})
}

type projectRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Budget      *float64 `json:"budget"`
	Revenue     float64  `json:"revenue"`
	CustomerID  int64    `json:"customer_id" binding:"required"`
}

func (s *Server) createProject(c *gin.Context) {
	var req projectRequest
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

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   start,
		EndDate:     end,
		Budget:      req.Budget,
		Revenue:     req.Revenue,
		CustomerID:  req.CustomerID,
	}
	if err := db.CreateProject(c.Request.Context(), s.db, project); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) listProjects(c *gin.Context) {
	skip, limit := page(c)
	projects, err := db.ListProjects(c.Request.Context(), s.db, skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) getProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	project, err := db.GetProject(c.Request.Context(), s.db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) deleteProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	report, err := db.DeleteProject(c.Request.Context(), s.db, id)
	if err != nil {
		writeError(c, err)
		return
	}
	s.metrics.CascadeDeleted(report.Deleted)

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
		"deleted": report.Deleted,
		"order":   report.Order,
	})
}
