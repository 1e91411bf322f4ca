package fare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trotropay/internal/types"
)

func fares(tbl Table) map[string]string {
	out := make(map[string]string, len(tbl))
	for _, s := range tbl {
		out[s.Name] = s.Fare.String()
	}
	return out
}

// assertSamePrices checks every forward trip in after costs what it did in
// before.
func assertSamePrices(t *testing.T, before, after Table) {
	t.Helper()
	for i, from := range after {
		for _, to := range after[i+1:] {
			was, err := Calculate(before, from.Name, to.Name)
			require.NoError(t, err)
			now, err := Calculate(after, from.Name, to.Name)
			require.NoError(t, err)
			assert.Equal(t, was.Amount.String(), now.Amount.String(), "%s to %s", from.Name, to.Name)
		}
	}
}

func TestNewTable(t *testing.T) {
	tbl, err := NewTable([]string{"Tema", "Ashaiman", "Accra"}, map[string]types.Money{
		"Ashaiman": money("2.50"),
		"Accra":    money("4.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tema", "Ashaiman", "Accra"}, tbl.Names())
	assert.True(t, tbl[0].Fare.IsZero())

	_, err = NewTable([]string{"Tema"}, nil)
	assert.ErrorIs(t, err, ErrMinimumStops)
}

func TestAddStop(t *testing.T) {
	tbl := circleLapaz(t)

	out, err := tbl.AddStop("  Kwame Nkrumah Circle Overpass ", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Circle", "Kwame Nkrumah Circle Overpass", "37 Station", "Achimota", "Lapaz"}, out.Names())
	assert.Equal(t, "0.00", out[1].Fare.String())

	out, err = tbl.AddStop("Ofankor", AtEnd)
	require.NoError(t, err)
	assert.Equal(t, "Ofankor", out[len(out)-1].Name)
	assert.Equal(t, "3.50", out[len(out)-1].Fare.String(), "new stop inherits the fare before it")

	// Inserting at the front makes the new stop the zero-fare origin.
	out, err = tbl.AddStop("Kaneshie", 0)
	require.NoError(t, err)
	assert.Equal(t, "Kaneshie", out[0].Name)
	assert.True(t, out[0].Fare.IsZero())

	_, err = tbl.AddStop("Achimota", AtEnd)
	assert.ErrorIs(t, err, ErrDuplicateStop)
	_, err = tbl.AddStop("  ", AtEnd)
	assert.ErrorIs(t, err, ErrEmptyStopName)
	_, err = tbl.AddStop("Ofankor", 9)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	assert.Len(t, tbl, 4, "receiver is never modified")
}

func TestRemoveStop(t *testing.T) {
	tbl := circleLapaz(t)

	out, err := tbl.RemoveStop("Achimota")
	require.NoError(t, err)
	assert.Equal(t, []string{"Circle", "37 Station", "Lapaz"}, out.Names())
	assert.Equal(t, map[string]string{"Circle": "0.00", "37 Station": "2.00", "Lapaz": "3.50"}, fares(out))

	// Removing the origin promotes the next stop and rebases on it.
	out, err = tbl.RemoveStop("Circle")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"37 Station": "0.00", "Achimota": "0.50", "Lapaz": "1.50"}, fares(out))
	assertSamePrices(t, tbl, out)

	three, err := tbl.RemoveStop("Lapaz")
	require.NoError(t, err)
	two, err := three.RemoveStop("Achimota")
	require.NoError(t, err)
	assert.Len(t, two, 2)

	_, err = two.RemoveStop("Circle")
	assert.ErrorIs(t, err, ErrMinimumStops)
	_, err = tbl.RemoveStop("Madina")
	assert.ErrorIs(t, err, ErrUnknownStop)
}

func TestReorderStop(t *testing.T) {
	tbl := circleLapaz(t)

	out, err := tbl.ReorderStop(2, Up)
	require.NoError(t, err)
	assert.Equal(t, []string{"Circle", "Achimota", "37 Station", "Lapaz"}, out.Names())

	out, err = tbl.ReorderStop(1, Down)
	require.NoError(t, err)
	assert.Equal(t, []string{"Circle", "Achimota", "37 Station", "Lapaz"}, out.Names())

	// Boundary moves change nothing.
	out, err = tbl.ReorderStop(0, Up)
	require.NoError(t, err)
	assert.Equal(t, tbl, out)
	out, err = tbl.ReorderStop(3, Down)
	require.NoError(t, err)
	assert.Equal(t, tbl, out)

	// Moving the origin down rebases on whichever stop becomes first.
	out, err = tbl.ReorderStop(0, Down)
	require.NoError(t, err)
	assert.Equal(t, []string{"37 Station", "Circle", "Achimota", "Lapaz"}, out.Names())
	assert.Equal(t, map[string]string{"37 Station": "0.00", "Circle": "0.00", "Achimota": "0.50", "Lapaz": "1.50"}, fares(out))
	without, err := out.RemoveStop("Circle")
	require.NoError(t, err)
	assertSamePrices(t, tbl, without)

	_, err = tbl.ReorderStop(4, Up)
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = tbl.ReorderStop(1, "sideways")
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestSetFares(t *testing.T) {
	tbl := circleLapaz(t)

	out, err := tbl.SetFares(map[string]types.Money{
		"Circle":     money("1.00"),
		"37 Station": money("2.20"),
		"Achimota":   money("3.00"),
		"Lapaz":      money("4.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", out[0].Fare.String(), "origin is always free")
	assert.Equal(t, "4.00", out[3].Fare.String())

	// The origin may be omitted.
	_, err = tbl.SetFares(map[string]types.Money{
		"37 Station": money("2.00"), "Achimota": money("2.50"), "Lapaz": money("3.50"),
	})
	require.NoError(t, err)

	_, err = tbl.SetFares(map[string]types.Money{"37 Station": money("2.00")})
	assert.ErrorIs(t, err, ErrIncompleteFares)

	_, err = tbl.SetFares(map[string]types.Money{
		"37 Station": money("2.00"), "Achimota": money("2.50"), "Lapaz": money("3.50"), "Madina": money("5.00"),
	})
	assert.ErrorIs(t, err, ErrUnknownStop)

	_, err = tbl.SetFares(map[string]types.Money{
		"37 Station": money("3.00"), "Achimota": money("2.50"), "Lapaz": money("3.50"),
	})
	assert.ErrorIs(t, err, ErrNonMonotonicFares)
}

func TestSetStopsKeepsRetainedFares(t *testing.T) {
	tbl := circleLapaz(t)

	out, err := tbl.SetStops([]string{"Circle", "37 Station", "Dome", "Lapaz"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Circle": "0.00", "37 Station": "2.00", "Dome": "2.00", "Lapaz": "3.50",
	}, fares(out))

	// Dropping the origin keeps the remaining trips at their price.
	out, err = tbl.SetStops([]string{"Achimota", "Lapaz"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Achimota": "0.00", "Lapaz": "1.00"}, fares(out))
	assertSamePrices(t, tbl, out)

	_, err = tbl.SetStops([]string{"Circle", "Circle"})
	assert.ErrorIs(t, err, ErrDuplicateStop)
	_, err = tbl.SetStops([]string{"Circle", " "})
	assert.ErrorIs(t, err, ErrEmptyStopName)
	_, err = tbl.SetStops([]string{"Circle"})
	assert.ErrorIs(t, err, ErrMinimumStops)
}
