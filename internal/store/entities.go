package store

import "github.com/daydeskapp/daydesk-server/internal/domain"

// Entity initializers. Everything a user owns is scoped by owner so
// listings never walk another user's records.

func (s *Store) initTasks() {
	s.Tasks = NewEntity[domain.Task](s, "task:").
		WithScope("owner", func(t *domain.Task) string {
			return t.OwnerID
		})
}

func (s *Store) initDocuments() {
	s.Documents = NewEntity[domain.Document](s, "doc:").
		WithScope("owner", func(d *domain.Document) string {
			return d.OwnerID
		})
}

func (s *Store) initEvents() {
	s.Events = NewEntity[domain.CalendarEvent](s, "event:").
		WithScope("owner", func(e *domain.CalendarEvent) string {
			return e.OwnerID
		})
}

func (s *Store) initProjects() {
	s.Projects = NewEntity[domain.Project](s, "proj:").
		WithScope("owner", func(p *domain.Project) string {
			return p.OwnerID
		})
}

func (s *Store) initWorkspaces() {
	s.Workspaces = NewEntity[domain.Workspace](s, "ws:").
		WithScope("owner", func(w *domain.Workspace) string {
			return w.OwnerID
		})
}

func (s *Store) initInvitations() {
	s.Invitations = NewEntity[domain.Invitation](s, "invite:").
		WithScope("inviter", func(i *domain.Invitation) string {
			return i.InviterID
		})
}

func (s *Store) initContacts() {
	s.Contacts = NewEntity[domain.ContactMessage](s, "contact:")
}

func (s *Store) initPasswordResets() {
	s.PasswordResets = NewEntity[domain.PasswordReset](s, "reset:")
}
