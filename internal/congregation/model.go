// Package congregation keeps a synagogue's members and their accounts:
// charges for aliyot, pledges and purchases, the payments that settle them
// and the annual statement built from both.
package congregation

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrOverAllocated   = errors.New("allocation exceeds the amount available")
	ErrChargeSettled   = errors.New("charge is already settled")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrForeignCharge   = errors.New("charge belongs to another congregant")
)

// Status of a congregant.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Address is a postal address.
type Address struct {
	Street          string `json:"street"`
	HouseNumber     string `json:"houseNumber"`
	ApartmentNumber string `json:"apartmentNumber,omitempty"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode,omitempty"`
}

// String renders the address on one line, Israeli style.
func (a Address) String() string {
	line := strings.TrimSpace(a.Street + " " + a.HouseNumber)
	if a.ApartmentNumber != "" {
		line += "/" + a.ApartmentNumber
	}
	parts := []string{}
	for _, p := range []string{line, a.City, a.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Congregant is a member of a synagogue.
type Congregant struct {
	ID             string    `json:"id"`
	SynagogueID    string    `json:"synagogueId" validate:"required"`
	FirstName      string    `json:"firstName" validate:"required"`
	LastName       string    `json:"lastName" validate:"required"`
	FatherName     string    `json:"fatherName,omitempty"`
	IdentityNumber string    `json:"identityNumber,omitempty" validate:"omitempty,numeric,max=9"`
	Phone          string    `json:"phone" validate:"required"`
	SecondaryPhone string    `json:"secondaryPhone,omitempty"`
	Email          string    `json:"email,omitempty" validate:"omitempty,email"`
	Address        *Address  `json:"address,omitempty"`
	Status         Status    `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
	FamilyUnitID   string    `json:"familyUnitId,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// FullName is "first last".
func (c Congregant) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Patch holds the fields of a partial congregant update; nil fields are left unchanged.
type Patch struct {
	FirstName      *string
	LastName       *string
	FatherName     *string
	IdentityNumber *string
	Phone          *string
	SecondaryPhone *string
	Email          *string
	Address        *Address
	Status         *Status
	FamilyUnitID   *string
	Notes          *string
}

// ChargeKind is what a congregant owes for.
type ChargeKind string

const (
	KindAliyah   ChargeKind = "ALIYAH"
	KindPledge   ChargeKind = "PLEDGE"
	KindPurchase ChargeKind = "PURCHASE"
)

// Charge is an amount a congregant owes.
type Charge struct {
	ID           string     `json:"id"`
	CongregantID string     `json:"congregantId" validate:"required"`
	Kind         ChargeKind `json:"type" validate:"required,oneof=ALIYAH PLEDGE PURCHASE"`
	Description  string     `json:"description" validate:"required"`
	Amount       Money      `json:"amount" validate:"gt=0"`
	Date         time.Time  `json:"gregorianDate" validate:"required"`
	HebrewDate   string     `json:"date"`

	// Aliyah details.
	Parasha      string `json:"parasha,omitempty"`
	AliyahType   string `json:"aliyahType,omitempty"`
	AliyahNumber int    `json:"aliyahNumber,omitempty" validate:"omitempty,min=1,max=8"`

	Notes     string    `json:"notes,omitempty"`
	Paid      Money     `json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
}

// Outstanding is what remains to be paid.
func (c Charge) Outstanding() Money {
	return c.Amount - c.Paid
}

// PaymentStatus is UNPAID, PARTIAL or PAID.
func (c Charge) PaymentStatus() string {
	switch {
	case c.Paid <= 0:
		return "UNPAID"
	case c.Paid < c.Amount:
		return "PARTIAL"
	default:
		return "PAID"
	}
}

// Method is how a payment was made.
type Method string

const (
	MethodCash          Method = "CASH"
	MethodCheck         Method = "CHECK"
	MethodTransfer      Method = "TRANSFER"
	MethodCard          Method = "CARD"
	MethodStandingOrder Method = "STANDING_ORDER"
)

// Methods lists every payment method in display order.
func Methods() []Method {
	return []Method{MethodCash, MethodCheck, MethodTransfer, MethodCard, MethodStandingOrder}
}

// Allocation assigns part of a payment to a charge.
type Allocation struct {
	ChargeID    string     `json:"chargeId"`
	Kind        ChargeKind `json:"targetType"`
	Description string     `json:"targetDescription"`
	Amount      Money      `json:"amount"`
}

// AllocationRequest asks to settle a charge. A zero amount means the charge's outstanding amount.
type AllocationRequest struct {
	ChargeID string
	Amount   Money
}

// Payment is money received from a congregant.
type Payment struct {
	ID           string       `json:"id"`
	CongregantID string       `json:"congregantId" validate:"required"`
	Amount       Money        `json:"amount" validate:"gt=0"`
	Method       Method       `json:"method" validate:"required,oneof=CASH CHECK TRANSFER CARD STANDING_ORDER"`
	Reference    string       `json:"reference,omitempty"`
	Date         time.Time    `json:"gregorianDate" validate:"required"`
	HebrewDate   string       `json:"hebrewDate"`
	Allocations  []Allocation `json:"allocations"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Allocated is the part of the payment already assigned to charges.
func (p Payment) Allocated() Money {
	var sum Money
	for _, a := range p.Allocations {
		sum += a.Amount
	}
	return sum
}

// Unallocated is what remains to be assigned.
func (p Payment) Unallocated() Money {
	return p.Amount - p.Allocated()
}
