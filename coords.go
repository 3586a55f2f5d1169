package lisa

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// ExtractCoordinates reduces each geometry to a representative planar
// coordinate and returns them as flat row-major [x0, y0, x1, y1, ...].
//
// Point geometries map to their own coordinates. Line and area geometries
// map to their centroids. Mixing points with line or area types keeps the
// coordinate space consistent because the centroid of a point is the point
// itself.
//
// Supported variants: Point, LineString, MultiLineString, Polygon,
// MultiPolygon. A nil, empty, or unsupported geometry yields
// ErrInvalidGeometry.
func ExtractCoordinates(geoms []geom.T) ([]float64, error) {
	for i, g := range geoms {
		if g == nil {
			return nil, fmt.Errorf("%w: missing geometry at index %d", ErrInvalidGeometry, i)
		}
		switch g.(type) {
		case *geom.Point, *geom.LineString, *geom.MultiLineString, *geom.Polygon, *geom.MultiPolygon:
			// supported
		default:
			return nil, fmt.Errorf("%w: unsupported geometry type %T at index %d", ErrInvalidGeometry, g, i)
		}
		if len(g.FlatCoords()) == 0 {
			return nil, fmt.Errorf("%w: empty geometry at index %d", ErrInvalidGeometry, i)
		}
	}

	coords := make([]float64, 2*len(geoms))
	for i, g := range geoms {
		if p, ok := g.(*geom.Point); ok {
			coords[2*i] = p.X()
			coords[2*i+1] = p.Y()
			continue
		}
		c, err := xy.Centroid(g)
		if err != nil {
			return nil, fmt.Errorf("%w: centroid of geometry at index %d: %v", ErrInvalidGeometry, i, err)
		}
		coords[2*i] = c[0]
		coords[2*i+1] = c[1]
	}
	return coords, nil
}
