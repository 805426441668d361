package admin

import (
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-gabbai/internal/config"
)

// Seed IDs of the demonstration data.
const (
	SeedSuperAdminID = "super-admin"
	SeedSynagogueNun = "1"
	SeedBethShalom   = "2"
)

// Seed loads two demonstration synagogues with one admin each and returns
// the super admin account to sign in with. It bypasses role checks.
func (d *Directory) Seed() (User, error) {
	created := d.now()

	synagogues := []Synagogue{
		{
			ID:           SeedSynagogueNun,
			Name:         "Synagogue Nun",
			HebrewName:   "בית כנסת נון",
			Address:      "ירושלים, ישראל",
			ContactPhone: "02-1234567",
			ContactEmail: "contact@nun.org.il",
			AdminUserID:  "admin-1",
			Active:       true,
			Settings:     DefaultSettings(),
		},
		{
			ID:           SeedBethShalom,
			Name:         "Beth Shalom",
			HebrewName:   "בית שלום",
			Address:      "תל אביב, ישראל",
			ContactPhone: "03-7654321",
			ContactEmail: "admin@bethshalom.org.il",
			AdminUserID:  "admin-2",
			Active:       true,
			Settings:     DefaultSettings(),
		},
	}
	users := []User{
		{ID: SeedSuperAdminID, Email: "admin@example.com", Name: "מנהל מערכת", Role: RoleSuperAdmin, Active: true},
		{ID: "admin-1", Email: "admin@nun.org.il", Name: "גבאי נון", Role: RoleAdmin, SynagogueID: SeedSynagogueNun, Active: true},
		{ID: "admin-2", Email: "admin@bethshalom.org.il", Name: "גבאי בית שלום", Role: RoleAdmin, SynagogueID: SeedBethShalom, Active: true},
	}

	d.slugMu.Lock()
	for _, s := range synagogues {
		s.Slug = d.uniqueSlug(s.Name)
		s.CreatedAt = created
		if _, err := d.synagogues.Create(s); err != nil {
			d.slugMu.Unlock()
			return User{}, fmt.Errorf("seed synagogue %s: %w", s.ID, err)
		}
	}
	d.slugMu.Unlock()

	for _, u := range users {
		u.CreatedAt = created
		if _, err := d.users.Create(u); err != nil {
			return User{}, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	slog.Info(config.MsgSeedLoaded,
		config.LogKeyComponent, config.CompAdmin,
		config.LogKeyCount, len(synagogues))

	return d.users.Get(SeedSuperAdminID)
}
