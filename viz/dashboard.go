// ABOUTME: Dashboard statistics and terminal rendering
// ABOUTME: Counts leads, customers, and projects fresh on every call
package viz

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/buildcrm/db"
	"github.com/harperreed/buildcrm/models"
	"github.com/jmoiron/sqlx"
)

type DashboardStats struct {
	Leads     LeadStats     `json:"leads"`
	Customers CustomerStats `json:"customers"`
	Projects  ProjectStats  `json:"projects"`
}

type LeadStats struct {
	Total     int64 `json:"total"`
	Converted int64 `json:"converted"`
}

type CustomerStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type ProjectStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// GenerateDashboardStats rescans the store. Active projects are those in progress.
func GenerateDashboardStats(ctx context.Context, database sqlx.ExtContext) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.Leads.Total, err = db.CountLeads(ctx, database, ""); err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	if stats.Leads.Converted, err = db.CountLeads(ctx, database, models.LeadConverted); err != nil {
		return nil, fmt.Errorf("failed to count converted leads: %w", err)
	}
	if stats.Customers.Total, err = db.CountCustomers(ctx, database, false); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if stats.Customers.Active, err = db.CountCustomers(ctx, database, true); err != nil {
		return nil, fmt.Errorf("failed to count active customers: %w", err)
	}
	if stats.Projects.Total, err = db.CountProjects(ctx, database, ""); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if stats.Projects.Active, err = db.CountProjects(ctx, database, models.ProjectInProgress); err != nil {
		return nil, fmt.Errorf("failed to count active projects: %w", err)
	}

	return stats, nil
}

var (
	dashboardTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170"))

	dashboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	dashboardBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10"))
)

// RenderDashboard formats the counters for a terminal. Styling is only applied
// when styled is set, so piped output stays plain.
func RenderDashboard(stats *DashboardStats, styled bool) string {
	title, header, bar := lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	if styled {
		title, header, bar = dashboardTitleStyle, dashboardHeaderStyle, dashboardBarStyle
	}

	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  " + title.Render("BUILDCRM DASHBOARD") + "\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	rows := []struct {
		label    string
		total    int64
		part     int64
		partName string
	}{
		{"Leads", stats.Leads.Total, stats.Leads.Converted, "converted"},
		{"Customers", stats.Customers.Total, stats.Customers.Active, "active"},
		{"Projects", stats.Projects.Total, stats.Projects.Active, "active"},
	}

	out.WriteString(header.Render("OVERVIEW") + "\n")
	for _, r := range rows {
		out.WriteString(fmt.Sprintf("  %-10s %s  %3d total, %d %s\n",
			r.label, bar.Render(ratioBar(r.part, r.total)), r.total, r.part, r.partName))
	}

	return out.String()
}

// ratioBar draws part/total as ten blocks.
func ratioBar(part, total int64) string {
	filled := 0
	if total > 0 {
		filled = int((part * 10) / total)
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
