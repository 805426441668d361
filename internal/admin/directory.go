package admin

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"
	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/store"
	"github.com/tartampluch/go-gabbai/internal/validate"
)

// Directory holds every synagogue and user of the console.
type Directory struct {
	synagogues store.Repository[Synagogue]
	users      store.Repository[User]
	now        func() time.Time

	// slugMu serializes slug allocation so two creations cannot claim the same one.
	slugMu sync.Mutex
}

// NewDirectory wires a Directory over the given repositories.
func NewDirectory(synagogues store.Repository[Synagogue], users store.Repository[User]) *Directory {
	return &Directory{synagogues: synagogues, users: users, now: time.Now}
}

// NewMemoryDirectory returns an empty in-process Directory.
func NewMemoryDirectory() *Directory {
	return NewDirectory(
		store.NewMemory(func(s *Synagogue) *string { return &s.ID }),
		store.NewMemory(func(u *User) *string { return &u.ID }),
	)
}

// --- Synagogues ---

// CreateSynagogue adds a tenant with a unique slug and default settings where unset.
func (d *Directory) CreateSynagogue(s *Session, in Synagogue) (Synagogue, error) {
	if !s.CanManageSynagogues() {
		return Synagogue{}, ErrForbidden
	}
	if in.Settings == (Settings{}) {
		in.Settings = DefaultSettings()
	}
	if err := validate.Struct(in); err != nil {
		return Synagogue{}, err
	}

	d.slugMu.Lock()
	defer d.slugMu.Unlock()

	in.ID = ""
	in.Slug = d.uniqueSlug(in.Name)
	in.CreatedAt = d.now()
	out, err := d.synagogues.Create(in)
	if err != nil {
		return Synagogue{}, err
	}
	slog.Info("Synagogue created",
		config.LogKeyComponent, config.CompAdmin,
		config.LogKeySynagogue, out.ID,
		config.LogKeySlug, out.Slug)
	return out, nil
}

func (d *Directory) uniqueSlug(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "synagogue"
	}
	result := base
	for i := 1; d.slugTaken(result); i++ {
		result = fmt.Sprintf("%s-%d", base, i)
	}
	return result
}

func (d *Directory) slugTaken(candidate string) bool {
	return len(d.synagogues.List(func(s Synagogue) bool { return s.Slug == candidate })) > 0
}

// UpdateSynagogue merges patch into the synagogue. Its slug never changes.
func (d *Directory) UpdateSynagogue(s *Session, id string, patch SynagoguePatch) (Synagogue, error) {
	if !s.CanManageSynagogues() {
		return Synagogue{}, ErrForbidden
	}
	return d.synagogues.Update(id, func(syn *Synagogue) error {
		if err := copier.CopyWithOption(syn, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
			return err
		}
		if patch.Settings != nil {
			if err := copier.CopyWithOption(&syn.Settings, patch.Settings, copier.Option{IgnoreEmpty: true}); err != nil {
				return err
			}
		}
		return validate.Struct(syn)
	})
}

// DeleteSynagogue removes a tenant together with its users and reports how many users went with it.
func (d *Directory) DeleteSynagogue(s *Session, id string) (int, error) {
	if !s.CanManageSynagogues() {
		return 0, ErrForbidden
	}
	if err := d.synagogues.Delete(id); err != nil {
		return 0, err
	}
	n := d.users.DeleteWhere(func(u User) bool { return u.SynagogueID == id })
	slog.Info("Synagogue deleted",
		config.LogKeyComponent, config.CompAdmin,
		config.LogKeySynagogue, id,
		config.LogKeyCount, n)
	return n, nil
}

// Synagogues lists the tenants the session may access.
func (d *Directory) Synagogues(s *Session) []Synagogue {
	return d.synagogues.List(func(syn Synagogue) bool { return s.CanAccessSynagogue(syn.ID) })
}

// Synagogue returns one tenant if the session may access it.
func (d *Directory) Synagogue(s *Session, id string) (Synagogue, error) {
	if !s.CanAccessSynagogue(id) {
		return Synagogue{}, ErrForbidden
	}
	return d.synagogues.Get(id)
}

// BySlug finds an active tenant by slug. Public feeds use it, so no session is involved.
func (d *Directory) BySlug(slugName string) (Synagogue, error) {
	found := d.synagogues.List(func(s Synagogue) bool { return s.Active && s.Slug == slugName })
	if len(found) == 0 {
		return Synagogue{}, fmt.Errorf("%w: %s", store.ErrNotFound, slugName)
	}
	return found[0], nil
}

// ActiveSynagogues lists every active tenant.
func (d *Directory) ActiveSynagogues() []Synagogue {
	return d.synagogues.List(func(s Synagogue) bool { return s.Active })
}

// --- Users ---

// CreateUser adds a user to a synagogue the session manages.
// Only a super admin may create another super admin.
func (d *Directory) CreateUser(s *Session, in User) (User, error) {
	if in.Role == "" {
		in.Role = RoleUser
	}
	if err := d.authorizeUser(s, in.Role, in.SynagogueID); err != nil {
		return User{}, err
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if err := validate.Struct(in); err != nil {
		return User{}, err
	}
	if err := d.checkSynagogue(in.SynagogueID); err != nil {
		return User{}, err
	}
	if d.emailTaken(in.Email, "") {
		return User{}, fmt.Errorf("%w: %s", store.ErrDuplicate, in.Email)
	}

	in.ID = ""
	in.CreatedAt = d.now()
	out, err := d.users.Create(in)
	if err != nil {
		return User{}, err
	}
	slog.Info("User created",
		config.LogKeyComponent, config.CompAdmin,
		config.LogKeyUser, out.ID,
		config.LogKeySynagogue, out.SynagogueID)
	return out, nil
}

// UpdateUser merges patch into a user the session manages.
func (d *Directory) UpdateUser(s *Session, id string, patch UserPatch) (User, error) {
	current, err := d.users.Get(id)
	if err != nil {
		return User{}, err
	}
	if !s.CanManageUsers(current.SynagogueID) {
		return User{}, ErrForbidden
	}

	role, synID := current.Role, current.SynagogueID
	if patch.Role != nil {
		role = *patch.Role
	}
	if patch.SynagogueID != nil {
		synID = *patch.SynagogueID
	}
	if err := d.authorizeUser(s, role, synID); err != nil {
		return User{}, err
	}
	if err := d.checkSynagogue(synID); err != nil {
		return User{}, err
	}
	if patch.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*patch.Email))
		if d.emailTaken(email, id) {
			return User{}, fmt.Errorf("%w: %s", store.ErrDuplicate, email)
		}
		patch.Email = &email
	}

	return d.users.Update(id, func(u *User) error {
		if err := copier.CopyWithOption(u, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
			return err
		}
		return validate.Struct(u)
	})
}

// DeleteUser removes a user the session manages.
func (d *Directory) DeleteUser(s *Session, id string) error {
	u, err := d.users.Get(id)
	if err != nil {
		return err
	}
	if !s.CanManageUsers(u.SynagogueID) {
		return ErrForbidden
	}
	return d.users.Delete(id)
}

// Users lists the accounts visible to the session: all for a super admin,
// the synagogue's users for an admin and only themselves for a user.
func (d *Directory) Users(s *Session) []User {
	switch s.Role() {
	case RoleSuperAdmin:
		return d.users.List(nil)
	case RoleAdmin:
		own := s.User().SynagogueID
		return d.users.List(func(u User) bool { return u.SynagogueID == own })
	default:
		if s.User() == nil {
			return nil
		}
		self := s.User().ID
		return d.users.List(func(u User) bool { return u.ID == self })
	}
}

// Touch records a sign-in.
func (d *Directory) Touch(id string) (User, error) {
	now := d.now()
	return d.users.Update(id, func(u *User) error {
		u.LastLogin = &now
		return nil
	})
}

func (d *Directory) authorizeUser(s *Session, role Role, synagogueID string) error {
	if role == RoleSuperAdmin {
		if !s.CanManageSynagogues() {
			return ErrForbidden
		}
		return nil
	}
	if !s.CanManageUsers(synagogueID) {
		return ErrForbidden
	}
	return nil
}

func (d *Directory) checkSynagogue(id string) error {
	if id == "" {
		return nil
	}
	_, err := d.synagogues.Get(id)
	return err
}

func (d *Directory) emailTaken(email, exceptID string) bool {
	return len(d.users.List(func(u User) bool {
		return u.ID != exceptID && strings.EqualFold(u.Email, email)
	})) > 0
}
