package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"trotropay/internal/accounts"
	"trotropay/internal/commission"
	"trotropay/internal/earnings"
	"trotropay/internal/fare"
	"trotropay/internal/fleet"
	"trotropay/internal/geo"
	"trotropay/internal/payments"
	"trotropay/internal/wallet"
)

type errorKind struct {
	target error
	status int
	code   string
}

// errorKinds is checked in order; the first errors.Is match wins.
var errorKinds = []errorKind{
	{wallet.ErrInsufficientBalance, http.StatusBadRequest, "INSUFFICIENT_BALANCE"},
	{wallet.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{wallet.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},

	{payments.ErrVehicleNotFound, http.StatusNotFound, "VEHICLE_NOT_FOUND"},
	{payments.ErrRouteNotFound, http.StatusNotFound, "ROUTE_NOT_FOUND"},
	{payments.ErrPassengerNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{payments.ErrVehicleInactive, http.StatusBadRequest, "VEHICLE_INACTIVE"},
	{payments.ErrRouteNotAssigned, http.StatusBadRequest, "ROUTE_NOT_ASSIGNED"},
	{payments.ErrAmountMismatch, http.StatusBadRequest, "AMOUNT_MISMATCH"},
	{payments.ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},

	{fare.ErrUnknownStop, http.StatusBadRequest, "UNKNOWN_STOP"},
	{fare.ErrInvalidDirection, http.StatusBadRequest, "INVALID_DIRECTION"},
	{fare.ErrDuplicateStop, http.StatusBadRequest, "DUPLICATE_STOP"},
	{fare.ErrMinimumStops, http.StatusBadRequest, "MINIMUM_STOPS"},
	{fare.ErrNonMonotonicFares, http.StatusBadRequest, "NON_MONOTONIC_FARES"},
	{fare.ErrIncompleteFares, http.StatusBadRequest, "INCOMPLETE_FARES"},
	{fare.ErrMalformedFare, http.StatusBadRequest, "MALFORMED_FARE"},
	{fare.ErrEmptyStopName, http.StatusBadRequest, "INVALID_REQUEST"},
	{fare.ErrInvalidPosition, http.StatusBadRequest, "INVALID_REQUEST"},
	{fare.ErrInvalidMove, http.StatusBadRequest, "INVALID_REQUEST"},
	{fare.ErrRouteName, http.StatusBadRequest, "INVALID_REQUEST"},
	{fare.ErrInconsistentFares, http.StatusConflict, "FARE_TABLE_INCONSISTENT"},
	{fare.ErrRouteExists, http.StatusConflict, "ROUTE_EXISTS"},
	{fare.ErrRouteNotFound, http.StatusNotFound, "ROUTE_NOT_FOUND"},
	{fare.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{geo.ErrNotLineString, http.StatusBadRequest, "INVALID_PATH"},

	{fleet.ErrVehicleNotFound, http.StatusNotFound, "VEHICLE_NOT_FOUND"},
	{fleet.ErrRouteNotFound, http.StatusNotFound, "ROUTE_NOT_FOUND"},
	{fleet.ErrVehicleExists, http.StatusConflict, "VEHICLE_EXISTS"},
	{fleet.ErrNotDriver, http.StatusForbidden, "FORBIDDEN"},
	{fleet.ErrNotOwner, http.StatusForbidden, "FORBIDDEN"},
	{fleet.ErrNotCrew, http.StatusForbidden, "FORBIDDEN"},
	{fleet.ErrInvalidCrew, http.StatusBadRequest, "INVALID_CREW"},
	{fleet.ErrInvalidVehicle, http.StatusBadRequest, "INVALID_REQUEST"},
	{fleet.ErrInvalidCount, http.StatusBadRequest, "INVALID_REQUEST"},

	{accounts.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{accounts.ErrPhoneTaken, http.StatusConflict, "PHONE_TAKEN"},
	{accounts.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{accounts.ErrInvalidRole, http.StatusBadRequest, "INVALID_REQUEST"},
	{accounts.ErrInvalidPhone, http.StatusBadRequest, "INVALID_REQUEST"},
	{accounts.ErrInvalidPIN, http.StatusBadRequest, "INVALID_REQUEST"},
	{accounts.ErrNameRequired, http.StatusBadRequest, "INVALID_REQUEST"},

	{earnings.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{earnings.ErrNoVehicle, http.StatusNotFound, "NO_VEHICLE"},

	{commission.ErrInvalidConfig, http.StatusBadRequest, "INVALID_COMMISSION"},
}

func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// respondError writes err under key ("error", or "message" for payments).
// Internal errors are logged and hidden from the caller.
func respondError(c *gin.Context, key string, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
		msg = "Internal server error"
	}
	c.JSON(status, gin.H{key: msg, "code": code})
}

func badRequest(c *gin.Context, key, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{key: msg, "code": "INVALID_REQUEST"})
}
