package congregation

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/hebdate"
	"github.com/tartampluch/go-gabbai/internal/validate"
)

// AddCharge records an amount owed by an existing congregant.
// The Hebrew date is derived from the civil date.
func (s *Service) AddCharge(in Charge) (Charge, error) {
	if err := validate.Struct(in); err != nil {
		return Charge{}, err
	}
	if _, err := s.congregants.Get(in.CongregantID); err != nil {
		return Charge{}, err
	}
	date, heb, err := dated(in.Date)
	if err != nil {
		return Charge{}, err
	}
	in.ID, in.Date, in.HebrewDate = "", date, heb
	in.Paid = 0
	in.CreatedAt = s.now()
	return s.charges.Create(in)
}

// Charges lists a congregant's charges by date.
func (s *Service) Charges(congregantID string) []Charge {
	out := s.charges.List(func(c Charge) bool { return c.CongregantID == congregantID })
	slices.SortStableFunc(out, func(a, b Charge) int { return a.Date.Compare(b.Date) })
	return out
}

// OutstandingCharges lists the charges a congregant has not fully paid, oldest first.
func (s *Service) OutstandingCharges(congregantID string) []Charge {
	out := s.charges.List(func(c Charge) bool {
		return c.CongregantID == congregantID && c.Outstanding() > 0
	})
	slices.SortStableFunc(out, func(a, b Charge) int { return a.Date.Compare(b.Date) })
	return out
}

// Balance is payments minus charges; negative means the congregant owes money.
func (s *Service) Balance(congregantID string) Money {
	var bal Money
	for _, c := range s.charges.List(func(c Charge) bool { return c.CongregantID == congregantID }) {
		bal -= c.Amount
	}
	for _, p := range s.payments.List(func(p Payment) bool { return p.CongregantID == congregantID }) {
		bal += p.Amount
	}
	return bal
}

// RecordPayment stores a payment with no allocations.
func (s *Service) RecordPayment(in Payment) (Payment, error) {
	if err := validate.Struct(in); err != nil {
		return Payment{}, err
	}
	if _, err := s.congregants.Get(in.CongregantID); err != nil {
		return Payment{}, err
	}
	date, heb, err := dated(in.Date)
	if err != nil {
		return Payment{}, err
	}
	in.ID, in.Date, in.HebrewDate = "", date, heb
	in.Allocations = nil
	in.CreatedAt = s.now()
	return s.payments.Create(in)
}

// Payments lists a congregant's payments by date.
func (s *Service) Payments(congregantID string) []Payment {
	out := s.payments.List(func(p Payment) bool { return p.CongregantID == congregantID })
	slices.SortStableFunc(out, func(a, b Payment) int { return a.Date.Compare(b.Date) })
	return out
}

// Allocate assigns parts of a payment to charges. Either every request is
// applied or none is. A request without an amount takes the charge's
// outstanding amount.
func (s *Service) Allocate(paymentID string, reqs []AllocationRequest) (Payment, error) {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	pay, err := s.payments.Get(paymentID)
	if err != nil {
		return Payment{}, fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
	}

	available := pay.Unallocated()
	pending := make(map[string]Money, len(reqs))
	planned := make([]Allocation, 0, len(reqs))

	for _, r := range reqs {
		ch, err := s.charges.Get(r.ChargeID)
		if err != nil {
			return Payment{}, err
		}
		if ch.CongregantID != pay.CongregantID {
			return Payment{}, fmt.Errorf("%w: %s", ErrForeignCharge, ch.ID)
		}
		left := ch.Outstanding() - pending[ch.ID]
		if left <= 0 {
			return Payment{}, fmt.Errorf("%w: %s", ErrChargeSettled, ch.ID)
		}
		amount := r.Amount
		if amount <= 0 {
			amount = left
		}
		if amount > left {
			return Payment{}, fmt.Errorf("%w: %s exceeds %s outstanding on %s", ErrOverAllocated, amount, left, ch.ID)
		}
		if amount > available {
			return Payment{}, fmt.Errorf("%w: %s exceeds %s left on payment", ErrOverAllocated, amount, available)
		}
		available -= amount
		pending[ch.ID] += amount
		planned = append(planned, Allocation{ChargeID: ch.ID, Kind: ch.Kind, Description: ch.Description, Amount: amount})
	}

	for id, amount := range pending {
		if _, err := s.charges.Update(id, func(c *Charge) error {
			c.Paid += amount
			return nil
		}); err != nil {
			return Payment{}, err
		}
	}
	out, err := s.payments.Update(paymentID, func(p *Payment) error {
		p.Allocations = append(p.Allocations, planned...)
		return nil
	})
	if err != nil {
		return Payment{}, err
	}

	slog.Info("Payment allocated",
		config.LogKeyComponent, config.CompCongregation,
		config.LogKeyCount, len(planned),
		config.LogKeyValue, out.Allocated().String())
	return out, nil
}

// dated normalizes a civil date to midnight UTC and renders its Hebrew date.
func dated(t time.Time) (time.Time, string, error) {
	y, m, d := t.Date()
	civil := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	heb, err := hebdate.FormatGregorian(civil)
	if err != nil {
		return time.Time{}, "", err
	}
	return civil, heb, nil
}
