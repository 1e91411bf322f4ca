package fare

import (
	"fmt"
	"strings"

	"trotropay/internal/models"
	"trotropay/internal/types"
)

// Stop is one entry of a fare table: a stop name and the cumulative fare
// from the route's first stop.
type Stop struct {
	Name string      `json:"name"`
	Fare types.Money `json:"fare"`
}

// Table is a route's ordered stops with their cumulative fares. Editing
// methods return a new Table and never modify the receiver.
type Table []Stop

// ParsePair splits a "<stop>:<amount>" entry on its last colon, so stop
// names may contain colons.
func ParsePair(entry string) (string, types.Money, error) {
	i := strings.LastIndex(entry, ":")
	if i <= 0 {
		return "", types.Zero, fmt.Errorf("%w: %q", ErrMalformedFare, entry)
	}
	name := strings.TrimSpace(entry[:i])
	amount, err := types.ParseMoney(strings.TrimSpace(entry[i+1:]))
	if name == "" || err != nil || amount.IsNegative() {
		return "", types.Zero, fmt.Errorf("%w: %q", ErrMalformedFare, entry)
	}
	return name, amount, nil
}

func FormatPair(name string, amount types.Money) string {
	return name + ":" + amount.String()
}

// ParseFares turns wire entries into a lookup by stop name.
func ParseFares(entries []string) (map[string]types.Money, error) {
	out := make(map[string]types.Money, len(entries))
	for _, e := range entries {
		name, amount, err := ParsePair(e)
		if err != nil {
			return nil, err
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("%w: fare for %q given twice", ErrMalformedFare, name)
		}
		out[name] = amount
	}
	return out, nil
}

// Decode builds a Table from the persisted stops and fares arrays. Every
// stop must have exactly one fare entry.
func Decode(stops, fares []string) (Table, error) {
	byStop, err := ParseFares(fares)
	if err != nil {
		return nil, err
	}
	t := make(Table, 0, len(stops))
	seen := make(map[string]bool, len(stops))
	for _, name := range stops {
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStop, name)
		}
		seen[name] = true
		amount, ok := byStop[name]
		if !ok {
			return nil, fmt.Errorf("%w: no fare for %q", ErrIncompleteFares, name)
		}
		t = append(t, Stop{Name: name, Fare: amount})
	}
	for name := range byStop {
		if !seen[name] {
			return nil, fmt.Errorf("%w: fare given for %q", ErrUnknownStop, name)
		}
	}
	return t, nil
}

// FromRoute decodes a persisted route's fare table.
func FromRoute(r *models.Route) (Table, error) {
	t, err := Decode(r.Stops, r.Fares)
	if err != nil {
		return nil, fmt.Errorf("route %q has a corrupt fare table: %w", r.Name, err)
	}
	return t, nil
}

// Encode returns the positionally aligned wire arrays.
func (t Table) Encode() (stops, fares []string) {
	stops = make([]string, len(t))
	fares = make([]string, len(t))
	for i, s := range t {
		stops[i] = s.Name
		fares[i] = FormatPair(s.Name, s.Fare)
	}
	return stops, fares
}

// ApplyTo writes the table back onto r, keeping the start and end labels in
// step with the first and last stops.
func (t Table) ApplyTo(r *models.Route) {
	stops, fares := t.Encode()
	r.Stops = stops
	r.Fares = fares
	if len(t) > 0 {
		r.StartPoint = t[0].Name
		r.EndPoint = t[len(t)-1].Name
	}
}

// Index returns the position of name, or -1.
func (t Table) Index(name string) int {
	for i, s := range t {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, s := range t {
		names[i] = s.Name
	}
	return names
}

func (t Table) clone() Table {
	return append(Table(nil), t...)
}

// Validate checks the invariants every stored table must satisfy.
func (t Table) Validate() error {
	if len(t) < 2 {
		return ErrMinimumStops
	}
	seen := make(map[string]bool, len(t))
	for _, s := range t {
		if s.Name == "" {
			return ErrEmptyStopName
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateStop, s.Name)
		}
		seen[s.Name] = true
	}
	return t.checkMonotonic()
}

func (t Table) checkMonotonic() error {
	for i := 1; i < len(t); i++ {
		if t[i].Fare.LessThan(t[i-1].Fare) {
			return fmt.Errorf("%w: %s (%s) is cheaper than %s (%s)",
				ErrNonMonotonicFares, t[i].Name, t[i].Fare, t[i-1].Name, t[i-1].Fare)
		}
	}
	return nil
}

// rebase shifts every fare down by the first stop's fare so the first stop
// is 0.00 again and trips between remaining stops keep their price. A stop
// that ends up below the new first stop is clamped to 0.00.
func (t Table) rebase() Table {
	if len(t) == 0 {
		return t
	}
	origin := t[0].Fare
	for i := range t {
		t[i].Fare = t[i].Fare.Sub(origin)
		if t[i].Fare.IsNegative() {
			t[i].Fare = types.Zero
		}
	}
	return t
}

// zeroOrigin forces the first stop's fare to 0.00.
func (t Table) zeroOrigin() Table {
	if len(t) > 0 {
		t[0].Fare = types.Zero
	}
	return t
}
