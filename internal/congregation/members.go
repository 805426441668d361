package congregation

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/store"
	"github.com/tartampluch/go-gabbai/internal/validate"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Service holds the congregants, charges and payments of every synagogue.
type Service struct {
	congregants store.Repository[Congregant]
	charges     store.Repository[Charge]
	payments    store.Repository[Payment]
	now         func() time.Time

	// ledgerMu serializes allocation, which touches a payment and several charges.
	ledgerMu sync.Mutex
}

// NewService wires a Service over the given repositories.
func NewService(congregants store.Repository[Congregant], charges store.Repository[Charge], payments store.Repository[Payment]) *Service {
	return &Service{congregants: congregants, charges: charges, payments: payments, now: time.Now}
}

// NewMemoryService returns an empty in-process Service.
func NewMemoryService() *Service {
	return NewService(
		store.NewMemory(func(c *Congregant) *string { return &c.ID }),
		store.NewMemory(func(c *Charge) *string { return &c.ID }),
		store.NewMemory(func(p *Payment) *string { return &p.ID }),
	)
}

// AddCongregant registers a member. Status defaults to ACTIVE.
func (s *Service) AddCongregant(in Congregant) (Congregant, error) {
	if in.Status == "" {
		in.Status = StatusActive
	}
	trimNames(&in)
	if err := validate.Struct(in); err != nil {
		return Congregant{}, err
	}
	in.ID = ""
	in.CreatedAt = s.now()
	return s.congregants.Create(in)
}

// Congregant returns one member.
func (s *Service) Congregant(id string) (Congregant, error) {
	return s.congregants.Get(id)
}

// UpdateCongregant merges patch into a member.
func (s *Service) UpdateCongregant(id string, patch Patch) (Congregant, error) {
	return s.congregants.Update(id, func(c *Congregant) error {
		if err := copier.CopyWithOption(c, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
			return err
		}
		trimNames(c)
		return validate.Struct(c)
	})
}

// RemoveCongregant deletes a member together with their charges and payments.
func (s *Service) RemoveCongregant(id string) error {
	if err := s.congregants.Delete(id); err != nil {
		return err
	}
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()
	charges := s.charges.DeleteWhere(func(c Charge) bool { return c.CongregantID == id })
	payments := s.payments.DeleteWhere(func(p Payment) bool { return p.CongregantID == id })
	slog.Debug("Congregant removed",
		config.LogKeyComponent, config.CompCongregation,
		config.LogKeyCount, charges+payments)
	return nil
}

// List returns a synagogue's members sorted by last then first name in Hebrew order.
func (s *Service) List(synagogueID string) []Congregant {
	out := s.congregants.List(func(c Congregant) bool { return c.SynagogueID == synagogueID })
	sortByName(out)
	return out
}

// Search filters a synagogue's members by name, phone or email, ignoring case.
// An empty term lists everyone.
func (s *Service) Search(synagogueID, term string) []Congregant {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.List(synagogueID)
	}
	out := s.congregants.List(func(c Congregant) bool {
		if c.SynagogueID != synagogueID {
			return false
		}
		for _, field := range []string{c.FirstName, c.LastName, c.Phone, c.Email} {
			if strings.Contains(strings.ToLower(field), term) {
				return true
			}
		}
		return false
	})
	sortByName(out)
	return out
}

func sortByName(cs []Congregant) {
	// Collators are not safe for concurrent use.
	col := collate.New(language.Hebrew, collate.IgnoreCase)
	slices.SortStableFunc(cs, func(a, b Congregant) int {
		if c := col.CompareString(a.LastName, b.LastName); c != 0 {
			return c
		}
		return col.CompareString(a.FirstName, b.FirstName)
	})
}

func trimNames(c *Congregant) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
}
