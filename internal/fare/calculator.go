package fare

import (
	"fmt"

	"trotropay/internal/types"
)

// Quote is the single-passenger price of a forward trip.
type Quote struct {
	Amount        types.Money `json:"amount"`
	BoardingStop  string      `json:"boardingStop"`
	AlightingStop string      `json:"alightingStop"`
	Distance      int         `json:"distance"`
	Route         string      `json:"route"`
}

// Calculate prices a trip as the difference of the two cumulative fares.
// Distance is counted in stops.
func Calculate(t Table, boarding, alighting string) (Quote, error) {
	from := t.Index(boarding)
	if from < 0 {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownStop, boarding)
	}
	to := t.Index(alighting)
	if to < 0 {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownStop, alighting)
	}
	if from >= to {
		return Quote{}, ErrInvalidDirection
	}

	amount := t[to].Fare.Sub(t[from].Fare)
	if amount.IsNegative() {
		return Quote{}, fmt.Errorf("%w: %s to %s", ErrInconsistentFares, boarding, alighting)
	}
	return Quote{
		Amount:        amount,
		BoardingStop:  boarding,
		AlightingStop: alighting,
		Distance:      to - from,
		Route:         boarding + " → " + alighting,
	}, nil
}

// ValidStops lists the stops a passenger boarding at boarding can alight
// at. An empty or unknown boarding stop returns every stop.
func ValidStops(t Table, boarding string) []string {
	i := t.Index(boarding)
	if i < 0 {
		return t.Names()
	}
	return t[i+1:].Names()
}
