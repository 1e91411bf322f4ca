package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"trotropay/internal/fare"
	"trotropay/internal/geo"
	"trotropay/internal/middleware"
	"trotropay/internal/models"
)

// RouteResponse is a route with its path as GeoJSON and its fare table
// decoded alongside the wire arrays.
type RouteResponse struct {
	models.Route
	Path      json.RawMessage `json:"path,omitempty"`
	FareTable fare.Table      `json:"fareTable"`
}

func toRouteResponse(r *models.Route) RouteResponse {
	resp := RouteResponse{Route: *r}
	if path, err := geo.DecodePath(r.Path); err != nil {
		logrus.WithError(err).WithField("route_id", r.ID).Warn("Stored route path is unreadable")
	} else {
		resp.Path = path
	}
	if t, err := fare.FromRoute(r); err != nil {
		logrus.WithError(err).WithField("route_id", r.ID).Warn("Stored fare table is unreadable")
	} else {
		resp.FareTable = t
	}
	return resp
}

type RouteController struct {
	fares *fare.Service
}

func NewRouteController(f *fare.Service) *RouteController {
	return &RouteController{fares: f}
}

func routeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("routeId"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "error", "Invalid route ID")
		return 0, false
	}
	return uint(id), true
}

func (rc *RouteController) ListRoutes(c *gin.Context) {
	routes, err := rc.fares.List(c.Request.Context())
	if err != nil {
		respondError(c, "error", err)
		return
	}
	out := make([]RouteResponse, 0, len(routes))
	for i := range routes {
		out = append(out, toRouteResponse(&routes[i]))
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}

func (rc *RouteController) GetRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	r, err := rc.fares.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(r))
}

// CreateRoute lets an owner publish a new route with its fare table.
func (rc *RouteController) CreateRoute(c *gin.Context) {
	var input struct {
		Name  string          `json:"name" binding:"required"`
		Stops []string        `json:"stops" binding:"required"`
		Fares []string        `json:"fares" binding:"required"`
		Path  json.RawMessage `json:"path"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "Invalid route input: "+err.Error())
		return
	}
	path, err := geo.EncodePath(input.Path)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	r, err := rc.fares.Create(c.Request.Context(), fare.NewRoute{
		Name:  input.Name,
		Stops: input.Stops,
		Fares: input.Fares,
		Path:  path,
	})
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusCreated, toRouteResponse(r))
}

func (rc *RouteController) CalculateFare(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	var input struct {
		BoardingStop  string `json:"boardingStop" binding:"required"`
		AlightingStop string `json:"alightingStop" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "boardingStop and alightingStop are required")
		return
	}
	quote, err := rc.fares.Quote(c.Request.Context(), id, input.BoardingStop, input.AlightingStop)
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// ValidStops lists where a passenger boarding at ?boardingStop= can alight.
func (rc *RouteController) ValidStops(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	stops, err := rc.fares.ValidStops(c.Request.Context(), id, c.Query("boardingStop"))
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stops": stops})
}

func (rc *RouteController) respondEdit(c *gin.Context, r *models.Route, err error) {
	if err != nil {
		respondError(c, "error", err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(r))
}

func (rc *RouteController) UpdateFares(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	var input struct {
		Fares []string `json:"fares" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "fares must be a list of \"<stop>:<amount>\" entries")
		return
	}
	r, err := rc.fares.SetFares(c.Request.Context(), id, middleware.CurrentUserID(c), input.Fares)
	rc.respondEdit(c, r, err)
}

func (rc *RouteController) UpdateStops(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	var input struct {
		Stops []string `json:"stops" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "stops must be a list of stop names")
		return
	}
	r, err := rc.fares.SetStops(c.Request.Context(), id, middleware.CurrentUserID(c), input.Stops)
	rc.respondEdit(c, r, err)
}

func (rc *RouteController) AddStop(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	var input struct {
		Name     string `json:"name" binding:"required"`
		Position *int   `json:"position"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", "name is required")
		return
	}
	position := fare.AtEnd
	if input.Position != nil {
		position = *input.Position
	}
	r, err := rc.fares.AddStop(c.Request.Context(), id, middleware.CurrentUserID(c), input.Name, position)
	rc.respondEdit(c, r, err)
}

func (rc *RouteController) RemoveStop(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	r, err := rc.fares.RemoveStop(c.Request.Context(), id, middleware.CurrentUserID(c), c.Param("stop"))
	rc.respondEdit(c, r, err)
}

func (rc *RouteController) ReorderStop(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	var input struct {
		Index     *int   `json:"index" binding:"required"`
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "error", `index and direction ("up" or "down") are required`)
		return
	}
	r, err := rc.fares.ReorderStop(c.Request.Context(), id, middleware.CurrentUserID(c), *input.Index, fare.Direction(input.Direction))
	rc.respondEdit(c, r, err)
}
