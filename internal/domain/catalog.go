package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by catalog lookups when no object matches.
	ErrNotFound = errors.New("object not found")
	// ErrGraphDisabled is returned when the graph store is not configured.
	ErrGraphDisabled = errors.New("graph store disabled")
)

// CatalogReader serves the most recently loaded catalog.
type CatalogReader interface {
	// List returns every record, or only those of class when it is non-empty.
	List(ctx context.Context, class OrbitClass) ([]ParsedElement, error)
	// FindByName returns the record whose name matches exactly.
	FindByName(ctx context.Context, name string) (ParsedElement, error)
	// Search returns records whose name contains query, ignoring case.
	Search(ctx context.Context, query string) ([]ParsedElement, error)
}

// GraphNode is a satellite or orbit-class node in the visualisation graph.
type GraphNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
	Title string `json:"title,omitempty"`
}

// GraphEdge links a satellite node to its orbit-class node.
type GraphEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// VisGraph is a node/edge list suitable for network visualisation libraries.
type VisGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphReader exposes the satellite/orbit relationship graph.
type GraphReader interface {
	VisGraph(ctx context.Context, limit int) (VisGraph, error)
}
