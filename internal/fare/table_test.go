package fare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trotropay/internal/models"
	"trotropay/internal/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

// circleLapaz is the demo route used across the package tests.
func circleLapaz(t *testing.T) Table {
	t.Helper()
	tbl, err := Decode(
		[]string{"Circle", "37 Station", "Achimota", "Lapaz"},
		[]string{"Circle:0.00", "37 Station:2.00", "Achimota:2.50", "Lapaz:3.50"},
	)
	require.NoError(t, err)
	return tbl
}

func TestParsePair(t *testing.T) {
	name, amount, err := ParsePair(" 37 Station : 2.5 ")
	require.NoError(t, err)
	assert.Equal(t, "37 Station", name)
	assert.Equal(t, "2.50", amount.String())

	// Only the last colon separates the amount.
	name, amount, err = ParsePair("Kaneshie: Market:1.00")
	require.NoError(t, err)
	assert.Equal(t, "Kaneshie: Market", name)
	assert.Equal(t, "1.00", amount.String())

	for _, bad := range []string{"Circle", ":1.00", "Circle:", "Circle:abc", "Circle:-1.00"} {
		_, _, err := ParsePair(bad)
		assert.ErrorIs(t, err, ErrMalformedFare, bad)
	}
}

func TestDecodeIsStrict(t *testing.T) {
	stops := []string{"A", "B"}

	_, err := Decode(stops, []string{"A:0.00"})
	assert.ErrorIs(t, err, ErrIncompleteFares)

	_, err = Decode(stops, []string{"A:0.00", "B:1.00", "C:2.00"})
	assert.ErrorIs(t, err, ErrUnknownStop)

	_, err = Decode([]string{"A", "A"}, []string{"A:0.00"})
	assert.ErrorIs(t, err, ErrDuplicateStop)

	_, err = Decode(stops, []string{"A:0.00", "B:1.00", "B:2.00"})
	assert.ErrorIs(t, err, ErrMalformedFare)
}

func TestEncodeRoundTripsThroughRoute(t *testing.T) {
	tbl := circleLapaz(t)
	r := &models.Route{Name: "Circle - Lapaz"}
	tbl.ApplyTo(r)

	assert.Equal(t, "Circle", r.StartPoint)
	assert.Equal(t, "Lapaz", r.EndPoint)
	assert.Equal(t, []string{"Circle", "37 Station", "Achimota", "Lapaz"}, []string(r.Stops))
	assert.Equal(t, "37 Station:2.00", r.Fares[1])

	back, err := FromRoute(r)
	require.NoError(t, err)
	assert.Equal(t, tbl, back)
}

func TestValidate(t *testing.T) {
	require.NoError(t, circleLapaz(t).Validate())

	assert.ErrorIs(t, Table{{Name: "A"}}.Validate(), ErrMinimumStops)
	assert.ErrorIs(t, Table{{Name: "A"}, {Name: ""}}.Validate(), ErrEmptyStopName)
	assert.ErrorIs(t, Table{{Name: "A"}, {Name: "A"}}.Validate(), ErrDuplicateStop)
	assert.ErrorIs(t, Table{
		{Name: "A"}, {Name: "B", Fare: money("2.00")}, {Name: "C", Fare: money("1.00")},
	}.Validate(), ErrNonMonotonicFares)
}
