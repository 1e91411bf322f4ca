package fare

import (
	"fmt"
	"strings"

	"trotropay/internal/types"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// AtEnd appends a stop after the current last stop.
const AtEnd = -1

// NewTable builds a table for a new route from its stop names and fares.
func NewTable(names []string, byStop map[string]types.Money) (Table, error) {
	t, err := Table(nil).SetStops(names)
	if err != nil {
		return nil, err
	}
	return t.SetFares(byStop)
}

// AddStop inserts name at position, or at the end for AtEnd. The new stop
// starts with the cumulative fare of the stop before it, so no existing
// trip changes price until fares are edited.
func (t Table) AddStop(name string, position int) (Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyStopName
	}
	if t.Index(name) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateStop, name)
	}
	if position == AtEnd {
		position = len(t)
	}
	if position < 0 || position > len(t) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}

	stop := Stop{Name: name}
	if position > 0 {
		stop.Fare = t[position-1].Fare
	}
	out := make(Table, 0, len(t)+1)
	out = append(out, t[:position]...)
	out = append(out, stop)
	out = append(out, t[position:]...)
	return out.zeroOrigin(), nil
}

// RemoveStop drops name and its fare. A route never goes below two stops.
// Removing the first stop rebases the table on the stop that follows it.
func (t Table) RemoveStop(name string) (Table, error) {
	i := t.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStop, name)
	}
	if len(t)-1 < 2 {
		return nil, ErrMinimumStops
	}
	out := make(Table, 0, len(t)-1)
	out = append(out, t[:i]...)
	out = append(out, t[i+1:]...)
	return out.rebase(), nil
}

// ReorderStop swaps the stop at index with its neighbour. Moving the first
// stop up or the last stop down leaves the table as it is. Trips that do
// not touch the moved stop keep their price.
func (t Table) ReorderStop(index int, dir Direction) (Table, error) {
	if index < 0 || index >= len(t) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, index)
	}
	var other int
	switch dir {
	case Up:
		other = index - 1
	case Down:
		other = index + 1
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMove, dir)
	}
	out := t.clone()
	if other < 0 || other >= len(t) {
		return out, nil
	}
	out[index], out[other] = out[other], out[index]
	return out.rebase(), nil
}

// SetFares replaces every fare. The first stop may be omitted and is stored
// as 0.00 whatever was supplied for it; every other stop needs an entry and
// fares must not decrease along the route.
func (t Table) SetFares(byStop map[string]types.Money) (Table, error) {
	for name := range byStop {
		if t.Index(name) < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStop, name)
		}
	}
	out := t.clone()
	for i := range out {
		amount, ok := byStop[out[i].Name]
		if !ok && i > 0 {
			return nil, fmt.Errorf("%w: %q", ErrIncompleteFares, out[i].Name)
		}
		out[i].Fare = amount
	}
	out = out.zeroOrigin()
	if err := out.checkMonotonic(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStops replaces the stop sequence. Stops that remain keep their fares;
// new ones take the fare of the stop before them.
func (t Table) SetStops(names []string) (Table, error) {
	if len(names) < 2 {
		return nil, ErrMinimumStops
	}
	out := make(Table, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, ErrEmptyStopName
		}
		if out.Index(name) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStop, name)
		}
		stop := Stop{Name: name}
		if i := t.Index(name); i >= 0 {
			stop.Fare = t[i].Fare
		} else if len(out) > 0 {
			stop.Fare = out[len(out)-1].Fare
		}
		out = append(out, stop)
	}
	return out.rebase(), nil
}
