package fare

import "errors"

var (
	ErrUnknownStop       = errors.New("stop is not on this route")
	ErrInvalidDirection  = errors.New("alighting stop must come after the boarding stop")
	ErrDuplicateStop     = errors.New("stop already exists on this route")
	ErrMinimumStops      = errors.New("a route must have at least 2 stops")
	ErrEmptyStopName     = errors.New("stop name is required")
	ErrInvalidPosition   = errors.New("stop position is out of range")
	ErrInvalidMove       = errors.New(`direction must be "up" or "down"`)
	ErrMalformedFare     = errors.New(`fare entries must look like "<stop>:<amount>"`)
	ErrIncompleteFares   = errors.New("every stop after the first needs a fare")
	ErrNonMonotonicFares = errors.New("fares must not decrease along the route")
	ErrInconsistentFares = errors.New("fare table yields a negative fare for this trip")

	ErrRouteNotFound = errors.New("route not found")
	ErrRouteExists   = errors.New("a route with this name already exists")
	ErrRouteName     = errors.New("route name is required")
	ErrForbidden     = errors.New("only a driver or owner of a vehicle on this route can edit it")
)
