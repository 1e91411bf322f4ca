// Package payments settles a passenger's fare: price the trip, debit the
// wallet, record the transaction and tell the crew.
package payments

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"trotropay/internal/fare"
	"trotropay/internal/models"
	"trotropay/internal/notify"
	"trotropay/internal/store"
	"trotropay/internal/types"
	"trotropay/internal/wallet"
)

const (
	DefaultMaxGroupSize = 10

	EventPaymentReceived = "payment_received"
)

// Command is one payment request. With BoardingStop set the fare comes from
// the route's fare table times PassengerCount; otherwise Amount is the total
// to charge.
type Command struct {
	PassengerID    uint
	VehicleCode    string
	Destination    string
	BoardingStop   string
	Amount         *types.Money
	PassengerCount int
	PaymentMethod  string
}

type Receipt struct {
	Transaction    models.Transaction
	NewBalance     types.Money
	IndividualFare types.Money
	Quote          *fare.Quote
}

func (r *Receipt) IsGroupPayment() bool {
	return r.Transaction.PassengerCount > 1
}

// Event is pushed to the crew after a payment completes.
type Event struct {
	Type        string           `json:"type"`
	Transaction EventTransaction `json:"transaction"`
}

type EventTransaction struct {
	models.Transaction
	PassengerPhone string      `json:"passengerPhone"`
	IndividualFare types.Money `json:"individualFare"`
	IsGroupPayment bool        `json:"isGroupPayment"`
}

type Options struct {
	MaxGroupSize int
	Now          func() time.Time
	NewReference func() string
}

type Service struct {
	store    store.Store
	notifier notify.Notifier
	maxGroup int
	now      func() time.Time
	newRef   func() string
}

func NewService(st store.Store, n notify.Notifier, opts Options) *Service {
	if n == nil {
		n = notify.Discard{}
	}
	if opts.MaxGroupSize <= 0 {
		opts.MaxGroupSize = DefaultMaxGroupSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewReference == nil {
		opts.NewReference = uuid.NewString
	}
	return &Service{
		store:    st,
		notifier: n,
		maxGroup: opts.MaxGroupSize,
		now:      opts.Now,
		newRef:   opts.NewReference,
	}
}

type attempt struct {
	stage Stage
	log   *logrus.Entry
}

func (a *attempt) advance(to Stage) error {
	if !CanAdvance(a.stage, to) {
		return fmt.Errorf("payment cannot move from %s to %s", a.stage, to)
	}
	a.stage = to
	a.log.WithField("stage", to).Debug("Payment advanced")
	return nil
}

func (a *attempt) fail(err error) error {
	stopped := a.stage
	a.stage = StageFailed
	a.log.WithError(err).WithField("stage", stopped).Warn("Payment failed")
	return &FailedError{Stage: stopped, Err: err}
}

// Process runs one payment attempt. Debit and record commit together or not
// at all; notifying the crew happens after commit and cannot fail the
// payment. Every error is a *FailedError.
func (s *Service) Process(ctx context.Context, cmd Command) (*Receipt, error) {
	ref := s.newRef()
	a := &attempt{
		stage: StageValidating,
		log: logrus.WithFields(logrus.Fields{
			"reference":    ref,
			"passenger_id": cmd.PassengerID,
			"vehicle":      cmd.VehicleCode,
		}),
	}

	passenger, vehicle, route, table, err := s.validate(ctx, &cmd)
	if err != nil {
		return nil, a.fail(err)
	}

	if err := a.advance(StagePricing); err != nil {
		return nil, a.fail(err)
	}
	total, quote, err := s.price(table, cmd)
	if err != nil {
		return nil, a.fail(err)
	}

	if err := a.advance(StageDebiting); err != nil {
		return nil, a.fail(err)
	}
	var (
		txn     models.Transaction
		balance types.Money
		crew    []uint
	)
	err = s.store.Atomic(ctx, func(tx store.Store) error {
		newBalance, err := wallet.NewLedger(tx).Debit(ctx, passenger.ID, total)
		if err != nil {
			return err
		}
		if err := a.advance(StageRecording); err != nil {
			return err
		}
		v, err := tx.GetVehicle(ctx, vehicle.ID)
		if err != nil {
			return err
		}
		txn = models.Transaction{
			Reference:      ref,
			PassengerID:    passenger.ID,
			VehicleID:      v.ID,
			MateID:         v.MateID,
			DriverID:       v.DriverID,
			OwnerID:        v.OwnerID,
			Amount:         total,
			PassengerCount: cmd.PassengerCount,
			BoardingStop:   cmd.BoardingStop,
			Destination:    cmd.Destination,
			RouteName:      route.Name,
			Status:         models.TransactionCompleted,
			PaymentMethod:  cmd.PaymentMethod,
			CreatedAt:      s.now(),
		}
		if err := tx.CreateTransaction(ctx, &txn); err != nil {
			return err
		}
		balance = newBalance
		crew = v.Crew()
		return nil
	})
	if err != nil {
		return nil, a.fail(err)
	}

	receipt := &Receipt{
		Transaction:    txn,
		NewBalance:     balance,
		IndividualFare: total.Split(txn.PassengerCount),
		Quote:          quote,
	}

	if err := a.advance(StageNotifying); err == nil {
		s.notifier.Notify(ctx, crew, Event{
			Type: EventPaymentReceived,
			Transaction: EventTransaction{
				Transaction:    txn,
				PassengerPhone: MaskPhone(passenger.Phone),
				IndividualFare: receipt.IndividualFare,
				IsGroupPayment: receipt.IsGroupPayment(),
			},
		})
		_ = a.advance(StageCompleted)
	}

	a.log.WithFields(logrus.Fields{
		"amount":          total.String(),
		"passenger_count": txn.PassengerCount,
		"new_balance":     balance.String(),
	}).Info("Payment completed")
	return receipt, nil
}

func (s *Service) validate(ctx context.Context, cmd *Command) (*models.User, *models.Vehicle, *models.Route, fare.Table, error) {
	cmd.VehicleCode = strings.TrimSpace(cmd.VehicleCode)
	cmd.Destination = strings.TrimSpace(cmd.Destination)
	cmd.BoardingStop = strings.TrimSpace(cmd.BoardingStop)
	if cmd.VehicleCode == "" {
		return nil, nil, nil, nil, fmt.Errorf("%w: vehicle id is required", ErrInvalidRequest)
	}
	if cmd.Destination == "" {
		return nil, nil, nil, nil, fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if cmd.PassengerCount == 0 {
		cmd.PassengerCount = 1
	}
	if cmd.PassengerCount < 1 || cmd.PassengerCount > s.maxGroup {
		return nil, nil, nil, nil, fmt.Errorf("%w: passenger count must be between 1 and %d", ErrInvalidRequest, s.maxGroup)
	}
	if cmd.PaymentMethod == "" {
		cmd.PaymentMethod = models.PaymentMethodMomo
	}

	passenger, err := s.store.GetUser(ctx, cmd.PassengerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, nil, nil, ErrPassengerNotFound
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}

	vehicle, err := s.store.GetVehicleByCode(ctx, cmd.VehicleCode)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, nil, nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, cmd.VehicleCode)
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if !vehicle.IsActive {
		return nil, nil, nil, nil, fmt.Errorf("%w: %s", ErrVehicleInactive, vehicle.Code)
	}
	if vehicle.RouteName == nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: %s", ErrRouteNotAssigned, vehicle.Code)
	}

	route, err := s.store.GetRouteByName(ctx, *vehicle.RouteName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, nil, nil, fmt.Errorf("%w: %s", ErrRouteNotFound, *vehicle.RouteName)
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}
	table, err := fare.FromRoute(route)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if table.Index(cmd.Destination) < 0 {
		return nil, nil, nil, nil, fmt.Errorf("%w: %q", fare.ErrUnknownStop, cmd.Destination)
	}
	return passenger, vehicle, route, table, nil
}

func (s *Service) price(table fare.Table, cmd Command) (types.Money, *fare.Quote, error) {
	var (
		total types.Money
		quote *fare.Quote
	)
	if cmd.BoardingStop != "" {
		q, err := fare.Calculate(table, cmd.BoardingStop, cmd.Destination)
		if err != nil {
			return types.Zero, nil, err
		}
		quote = &q
		total = q.Amount.Times(cmd.PassengerCount)
		if cmd.Amount != nil && !cmd.Amount.Equal(total) {
			return types.Zero, nil, fmt.Errorf("%w: expected %s, got %s", ErrAmountMismatch, total, cmd.Amount)
		}
	} else {
		if cmd.Amount == nil {
			return types.Zero, nil, fmt.Errorf("%w: amount or boarding stop is required", ErrInvalidRequest)
		}
		total = *cmd.Amount
	}
	if !total.IsPositive() {
		return types.Zero, nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidRequest)
	}
	return total, quote, nil
}

var phoneDigits = regexp.MustCompile(`(\d{3})\d{4}(\d{3})`)

// MaskPhone hides the middle four digits of the first ten-digit run, so
// 0245678901 becomes 024****901.
func MaskPhone(phone string) string {
	m := phoneDigits.FindStringSubmatchIndex(phone)
	if m == nil {
		return phone
	}
	return phone[:m[0]] + phone[m[2]:m[3]] + "****" + phone[m[4]:m[5]] + phone[m[1]:]
}

// History returns the passenger's payments, newest first.
func (s *Service) History(ctx context.Context, passengerID uint, limit int) ([]models.Transaction, error) {
	return s.store.ListTransactionsByPassenger(ctx, passengerID, limit)
}
