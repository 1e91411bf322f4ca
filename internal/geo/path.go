// Package geo converts route paths between GeoJSON and the WKB stored in the
// database.
package geo

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

var ErrNotLineString = errors.New("route path must be a GeoJSON LineString")

// EncodePath parses a GeoJSON LineString into little-endian WKB. Empty input
// means no path.
func EncodePath(raw []byte) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLineString, err)
	}
	ls, ok := g.(*geom.LineString)
	if !ok || ls.NumCoords() < 2 {
		return nil, ErrNotLineString
	}
	return wkb.Marshal(ls, binary.LittleEndian)
}

// DecodePath turns stored WKB back into GeoJSON. No path gives nil.
func DecodePath(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("invalid WKB: %w", err)
	}
	return gjson.Marshal(g)
}
