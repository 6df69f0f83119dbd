// Package neo4j mirrors the catalog into a property graph of Satellite nodes
// linked to Orbit class nodes, and reads it back for visualisation.
package neo4j

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	neo4jdrv "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

// DefaultVisLimit bounds VisGraph when the caller passes a non-positive limit.
const DefaultVisLimit = 500

const writeChunkSize = 1000

const (
	resetQuery = `MATCH (n) WHERE n:Satellite OR n:Orbit DETACH DELETE n`

	mergeQuery = `UNWIND $rows AS row
MERGE (sat:Satellite {name: row.name})
SET sat.catalog_number = row.catalog_number,
    sat.approx_alt_km = row.approx_alt_km,
    sat.orbit_class = row.orbit_class,
    sat.line1 = row.line1,
    sat.line2 = row.line2
MERGE (o:Orbit {class: row.orbit_class})
MERGE (sat)-[:IN_ORBIT]->(o)`

	visQuery = `MATCH (sat:Satellite)-[:IN_ORBIT]->(o:Orbit)
RETURN sat.name AS sname, sat.catalog_number AS cat, sat.approx_alt_km AS alt, o.class AS oclass
LIMIT $limit`
)

// Graph implements pipeline.BatchLoader and domain.GraphReader.
type Graph struct {
	driver neo4jdrv.DriverWithContext
	logger *slog.Logger
}

// NewGraph opens a driver for uri and verifies connectivity.
func NewGraph(ctx context.Context, uri, user, password string, logger *slog.Logger) (*Graph, error) {
	driver, err := neo4jdrv.NewDriverWithContext(uri, neo4jdrv.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(context.Background())
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Graph{driver: driver, logger: logger}, nil
}

// LoadBatch replaces every Satellite and Orbit node in one write transaction.
func (g *Graph) LoadBatch(ctx context.Context, records []domain.ParsedElement) error {
	session := g.driver.NewSession(ctx, neo4jdrv.SessionConfig{AccessMode: neo4jdrv.AccessModeWrite})
	defer session.Close(ctx)

	rows := toRows(records)
	_, err := session.ExecuteWrite(ctx, func(tx neo4jdrv.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, resetQuery, nil); err != nil {
			return nil, fmt.Errorf("reset graph: %w", err)
		}
		for start := 0; start < len(rows); start += writeChunkSize {
			end := min(start+writeChunkSize, len(rows))
			if _, err := tx.Run(ctx, mergeQuery, map[string]any{"rows": rows[start:end]}); err != nil {
				return nil, fmt.Errorf("merge satellites %d-%d: %w", start, end, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	g.logger.Debug("graph replaced", "satellites", len(rows))
	return nil
}

// VisGraph returns up to limit satellite-orbit relationships as a node and
// edge list.
func (g *Graph) VisGraph(ctx context.Context, limit int) (domain.VisGraph, error) {
	if limit <= 0 {
		limit = DefaultVisLimit
	}
	res, err := neo4jdrv.ExecuteQuery(ctx, g.driver, visQuery,
		map[string]any{"limit": limit},
		neo4jdrv.EagerResultTransformer,
		neo4jdrv.ExecuteQueryWithReadersRouting(),
	)
	if err != nil {
		return domain.VisGraph{}, fmt.Errorf("query graph: %w", err)
	}

	rows := make([]visRow, 0, len(res.Records))
	for _, rec := range res.Records {
		rows = append(rows, visRowFromMap(rec.AsMap()))
	}
	return buildVisGraph(rows), nil
}

// Ping reports whether the database is reachable.
func (g *Graph) Ping(ctx context.Context) error {
	return g.driver.VerifyConnectivity(ctx)
}

func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

func toRows(records []domain.ParsedElement) []map[string]any {
	rows := make([]map[string]any, len(records))
	for i := range records {
		el := &records[i]
		row := map[string]any{
			"name":           el.Name,
			"catalog_number": nil,
			"approx_alt_km":  nil,
			"orbit_class":    string(el.OrbitClass),
			"line1":          el.Line1,
			"line2":          el.Line2,
		}
		if el.CatalogNumber != nil {
			row["catalog_number"] = int64(*el.CatalogNumber)
		}
		if el.ApproxAltitudeKm != nil {
			row["approx_alt_km"] = *el.ApproxAltitudeKm
		}
		rows[i] = row
	}
	return rows
}

type visRow struct {
	name  string
	alt   *float64
	class string
}

func visRowFromMap(m map[string]any) visRow {
	r := visRow{}
	r.name, _ = m["sname"].(string)
	r.class, _ = m["oclass"].(string)
	switch v := m["alt"].(type) {
	case float64:
		r.alt = &v
	case int64:
		f := float64(v)
		r.alt = &f
	}
	return r
}

// buildVisGraph numbers nodes from 1 in first-seen order. Each satellite and
// each orbit class appears once; every row contributes one edge.
func buildVisGraph(rows []visRow) domain.VisGraph {
	g := domain.VisGraph{Nodes: []domain.GraphNode{}, Edges: []domain.GraphEdge{}}
	ids := make(map[string]int)
	next := 1

	nodeID := func(key string, node domain.GraphNode) int {
		if id, ok := ids[key]; ok {
			return id
		}
		node.ID = next
		ids[key] = next
		g.Nodes = append(g.Nodes, node)
		next++
		return node.ID
	}

	for _, r := range rows {
		sat := nodeID("Satellite:"+r.name, domain.GraphNode{Label: r.name, Group: "satellite", Title: altTitle(r.alt)})
		orbit := nodeID("Orbit:"+r.class, domain.GraphNode{Label: r.class, Group: "orbit"})
		g.Edges = append(g.Edges, domain.GraphEdge{From: sat, To: orbit})
	}
	return g
}

func altTitle(alt *float64) string {
	if alt == nil {
		return "alt=unknown"
	}
	return "alt=" + strconv.FormatFloat(*alt, 'f', 1, 64)
}
