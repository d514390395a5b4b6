// Package shell is the console's navigation: which page is visible, the side
// menu, and the login gate in front of the dashboard.
package shell

import (
	"context"
	"errors"
	"sync"

	"restaurant-admin/internal/controller"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/session"
)

// Home is the dashboard landing entry; it has no controller.
const Home = "home"

var ErrUnknownPage = errors.New("unknown page")

type MenuEntry struct {
	Key   string
	Title string
	// Divider is set on the first entry of the administration group.
	Divider bool
}

type Shell struct {
	sess  *session.Store
	pages map[string]*controller.Controller
	menu  []MenuEntry

	mu      sync.RWMutex
	current string
}

// New builds one controller per resource schema, all sharing res and sess.
func New(res controller.Resources, sess *session.Store, opts ...controller.Opt) *Shell {
	s := &Shell{
		sess:    sess,
		pages:   make(map[string]*controller.Controller),
		menu:    []MenuEntry{{Key: Home, Title: "Home"}},
		current: Home,
	}
	for _, schema := range domain.Schemas() {
		s.pages[schema.Name] = controller.New(schema, res, sess, opts...)
		s.menu = append(s.menu, MenuEntry{
			Key:     schema.Name,
			Title:   schema.Title,
			Divider: schema.Name == domain.Usuarios.Name,
		})
	}
	return s
}

func (s *Shell) Menu() []MenuEntry { return append([]MenuEntry(nil), s.menu...) }

// SignedIn gates the dashboard.
func (s *Shell) SignedIn() bool { return s.sess.SignedIn() }

func (s *Shell) Session() *session.Store { return s.sess }

// Page returns the controller behind a menu key without switching to it.
func (s *Shell) Page(key string) (*controller.Controller, bool) {
	c, ok := s.pages[key]
	return c, ok
}

// Select makes key the visible page and mounts its controller. The mount
// error is returned but the page is switched anyway: the controller shows it.
func (s *Shell) Select(ctx context.Context, key string) (*controller.Controller, error) {
	if key == Home {
		s.setCurrent(Home)
		return nil, nil
	}
	c, ok := s.pages[key]
	if !ok {
		return nil, ErrUnknownPage
	}
	s.setCurrent(key)
	return c, c.Mount(ctx)
}

func (s *Shell) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Shell) setCurrent(key string) {
	s.mu.Lock()
	s.current = key
	s.mu.Unlock()
}
