package admin

import (
	"fmt"
	"sync"
)

// Session is the signed-in user and the synagogue they are working in.
// A nil user is treated as an anonymous USER with no access.
type Session struct {
	user *User

	mu      sync.RWMutex
	current string
}

// NewSession starts a session. Admins and users start in their own synagogue.
func NewSession(u *User) *Session {
	s := &Session{user: u}
	if u != nil {
		s.current = u.SynagogueID
	}
	return s
}

// User returns the signed-in user, or nil.
func (s *Session) User() *User {
	return s.user
}

// Role returns the user's role; USER when nobody is signed in.
func (s *Session) Role() Role {
	if s.user == nil || s.user.Role == "" {
		return RoleUser
	}
	return s.user.Role
}

// CanManageSynagogues reports whether the session may create, edit or delete tenants.
func (s *Session) CanManageSynagogues() bool {
	return s.Role() == RoleSuperAdmin
}

// CanManageUsers reports whether the session may manage the users of a synagogue.
func (s *Session) CanManageUsers(targetSynagogueID string) bool {
	switch s.Role() {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		return targetSynagogueID != "" && s.user.SynagogueID == targetSynagogueID
	default:
		return false
	}
}

// CanAccessSynagogue reports whether the session may read a synagogue's data.
func (s *Session) CanAccessSynagogue(id string) bool {
	if s.Role() == RoleSuperAdmin {
		return true
	}
	return s.user != nil && id != "" && s.user.SynagogueID == id
}

// SelectSynagogue switches the working synagogue.
func (s *Session) SelectSynagogue(id string) error {
	if !s.CanAccessSynagogue(id) {
		return fmt.Errorf("%w: synagogue %s", ErrForbidden, id)
	}
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	return nil
}

// CurrentSynagogue returns the working synagogue ID, or "".
func (s *Session) CurrentSynagogue() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
