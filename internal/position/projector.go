// Package position serves geodetic fixes for catalog objects.
package position

import (
	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

// Projector computes a geodetic fix for an element set.
type Projector interface {
	Project(line1, line2 string) domain.GeodeticFix
}

// PropagatorProjector projects element sets with a domain.Propagator.
type PropagatorProjector struct {
	propagator domain.Propagator
}

// NewPropagatorProjector creates a Projector backed by p.
func NewPropagatorProjector(p domain.Propagator) *PropagatorProjector {
	return &PropagatorProjector{propagator: p}
}

func (p *PropagatorProjector) Project(line1, line2 string) domain.GeodeticFix {
	return domain.ProjectGeodetic(p.propagator, line1, line2)
}
