// ABOUTME: Graphviz DOT generation for the schema and for customer networks
// ABOUTME: The dependency graph mirrors the foreign keys the cascade engine walks
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/buildcrm/db"
	"github.com/jmoiron/sqlx"
)

type GraphGenerator struct {
	db *sqlx.DB
}

func NewGraphGenerator(database *sqlx.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GenerateDependencyGraph draws one node per table and one edge per foreign
// key, pointing from the referencing table to the referenced one.
func GenerateDependencyGraph(ctx context.Context) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel("Foreign key dependencies")
	graph.SetRankDir(cgraph.BTRank)

	order, err := db.DeletionOrder(db.Tables())
	if err != nil {
		return "", err
	}

	nodes := make(map[string]*cgraph.Node, len(order))
	for i, table := range order {
		node, err := graph.CreateNodeByName(table)
		if err != nil {
			return "", fmt.Errorf("failed to create table node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n(delete #%d)", table, i+1))
		node.SetShape("box")
		nodes[table] = node
	}

	for _, e := range db.Graph {
		edge, err := graph.CreateEdgeByName(e.Table+"."+e.Column, nodes[e.Table], nodes[e.References])
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetLabel(e.Column)
		if e.Nullable {
			edge.SetStyle("dashed")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

// GenerateCustomerGraph draws a customer with its projects and the vendors
// working on them.
func (g *GraphGenerator) GenerateCustomerGraph(ctx context.Context, customerID int64) (string, error) {
	detail, err := db.GetCustomerWithProjects(ctx, g.db, customerID)
	if err != nil {
		return "", err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel(detail.Name)

	customerNode, err := graph.CreateNodeByName(fmt.Sprintf("customer_%d", detail.ID))
	if err != nil {
		return "", fmt.Errorf("failed to create customer node: %w", err)
	}
	customerNode.SetLabel(fmt.Sprintf("%s\n%s", detail.Name, detail.Email))
	customerNode.SetShape("box")
	customerNode.SetStyle("filled")
	customerNode.SetFillColor("lightblue")

	vendorNodes := make(map[int64]*cgraph.Node)
	for _, project := range detail.Projects {
		projectNode, err := graph.CreateNodeByName(fmt.Sprintf("project_%d", project.ID))
		if err != nil {
			return "", fmt.Errorf("failed to create project node: %w", err)
		}
		projectNode.SetLabel(fmt.Sprintf("%s\n(%s)", project.Name, project.Status))
		projectNode.SetShape("ellipse")
		projectNode.SetStyle("filled")
		projectNode.SetFillColor("lightyellow")

		if _, err := graph.CreateEdgeByName("owns", customerNode, projectNode); err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}

		links, err := db.ListProjectVendors(ctx, g.db, project.ID)
		if err != nil {
			return "", err
		}
		for _, link := range links {
			vendorNode, ok := vendorNodes[link.VendorID]
			if !ok {
				vendor, err := db.GetVendor(ctx, g.db, link.VendorID)
				if err != nil {
					return "", err
				}
				vendorNode, err = graph.CreateNodeByName(fmt.Sprintf("vendor_%d", vendor.ID))
				if err != nil {
					return "", fmt.Errorf("failed to create vendor node: %w", err)
				}
				vendorNode.SetLabel(fmt.Sprintf("%s\n(%s)", vendor.Name, vendor.Specialty))
				vendorNode.SetShape("diamond")
				vendorNode.SetStyle("filled")
				vendorNode.SetFillColor("lightgreen")
				vendorNodes[link.VendorID] = vendorNode
			}

			edge, err := graph.CreateEdgeByName("works_on", vendorNode, projectNode)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			if link.Role != "" {
				edge.SetLabel(link.Role)
			}
			edge.SetStyle("dashed")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
