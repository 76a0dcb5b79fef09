// Package app holds the application state: the entity stores every client
// shares, the per-client workspaces that carry authentication and view
// state, and the command handlers that mutate both.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/lalith-99/clubhub/internal/fixtures"
	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
	"github.com/lalith-99/clubhub/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Publisher receives events after successful mutations.
// Publish is called with state locks held and must not block.
type Publisher interface {
	Publish(realtime.Event)
}

// Blobs opens stored file content by the URL it was stored under.
type Blobs interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Options configures a State. Zero values select production defaults.
type Options struct {
	Clock         Clock
	IDs           IDGenerator
	Authenticator Authenticator
	Publisher     Publisher
	Blobs         Blobs
	Logger        *zap.Logger

	// AuthLatency delays signup the way a real registration round trip would.
	AuthLatency time.Duration
}

// State owns every entity store. All mutations go through its lock, one
// at a time.
type State struct {
	mu           sync.RWMutex
	users        *store.Ordered[models.User]
	clubs        *store.Ordered[models.Club]
	channels     *store.Ordered[models.Channel]
	messages     *store.Ordered[models.Message]
	dms          *store.Ordered[models.DirectMessage]
	sessions     *store.Ordered[models.Session]
	resources    *store.Ordered[models.Resource]
	applications *store.Ordered[models.ClubApplication]

	defaults fixtures.Defaults

	clock       Clock
	ids         IDGenerator
	authn       Authenticator
	pub         Publisher
	blobs       Blobs
	log         *zap.Logger
	authLatency time.Duration

	wsMu       sync.Mutex
	workspaces map[string]*Workspace

	downloads singleflight.Group
}

// New builds a State seeded from fx.
func New(fx *fixtures.Fixtures, opts Options) (*State, error) {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Publisher == nil {
		opts.Publisher = discard{}
	}
	if opts.Authenticator == nil {
		authn, err := NewDemoAuthenticator(fx.Demo, 0)
		if err != nil {
			return nil, fmt.Errorf("demo authenticator: %w", err)
		}
		opts.Authenticator = authn
	}

	s := &State{
		users:        store.New(func(u models.User) string { return u.ID }),
		clubs:        store.New(func(c models.Club) string { return c.ID }),
		channels:     store.New(func(c models.Channel) string { return c.ID }),
		messages:     store.New(func(m models.Message) string { return m.ID }),
		dms:          store.New(func(d models.DirectMessage) string { return d.ID }),
		sessions:     store.New(func(s models.Session) string { return s.ID }),
		resources:    store.New(func(r models.Resource) string { return r.ID }),
		applications: store.New(func(a models.ClubApplication) string { return a.ID }),
		defaults:     fx.Defaults,
		clock:        opts.Clock,
		ids:          opts.IDs,
		authn:        opts.Authenticator,
		pub:          opts.Publisher,
		blobs:        opts.Blobs,
		log:          opts.Logger,
		authLatency:  opts.AuthLatency,
		workspaces:   make(map[string]*Workspace),
	}

	snap := Snapshot{
		Users:          fx.Users,
		Clubs:          fx.Clubs,
		Channels:       fx.Channels,
		Messages:       fx.Messages,
		DirectMessages: fx.DirectMessages,
		Sessions:       fx.Sessions,
		Resources:      fx.Resources,
	}
	if err := s.Restore(snap); err != nil {
		return nil, fmt.Errorf("seed state: %w", err)
	}
	return s, nil
}

// OpenWorkspace starts an anonymous workspace for a new client.
func (s *State) OpenWorkspace() *Workspace {
	w := &Workspace{id: s.ids.New(), st: s}

	s.mu.RLock()
	w.view = s.defaultViewLocked()
	s.mu.RUnlock()

	s.wsMu.Lock()
	s.workspaces[w.id] = w
	s.wsMu.Unlock()

	s.log.Debug("workspace opened", zap.String("workspace_id", w.id))
	return w
}

// Workspace returns the open workspace with the given id.
func (s *State) Workspace(id string) (*Workspace, bool) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	w, ok := s.workspaces[id]
	return w, ok
}

// CloseWorkspace forgets a workspace. Closing an unknown id is a no-op.
func (s *State) CloseWorkspace(id string) {
	s.wsMu.Lock()
	delete(s.workspaces, id)
	s.wsMu.Unlock()
	s.log.Debug("workspace closed", zap.String("workspace_id", id))
}

// User returns a user by id.
func (s *State) User(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.Get(id)
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u.Clone(), nil
}

// Clubs lists every club in seed order.
func (s *State) Clubs() []models.Club {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.clubs.Values()
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

// RecordDownload bumps a resource's download count by exactly one.
func (s *State) RecordDownload(resourceID string) (models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated models.Resource
	ok := s.resources.Update(resourceID, func(r *models.Resource) {
		r.DownloadCount++
		updated = r.Clone()
	})
	if !ok {
		return models.Resource{}, fmt.Errorf("resource %s: %w", resourceID, ErrNotFound)
	}
	s.pub.Publish(realtime.NewEvent(realtime.ResourceDownloaded, updated).InClub(updated.ClubID))
	return updated, nil
}

// defaultViewLocked is the view a freshly authenticated client starts from.
// Caller holds s.mu.
func (s *State) defaultViewLocked() ViewState {
	v := ViewState{CurrentClubID: s.defaults.ClubID}
	s.resetChannelLocked(&v)
	return v
}

// resetChannelLocked points v at the first channel of its current club.
func (s *State) resetChannelLocked(v *ViewState) {
	v.ActiveChannelID = ""
	v.ActivePanel = PanelChat
	if ch, ok := s.channels.Find(func(c models.Channel) bool { return c.ClubID == v.CurrentClubID }); ok {
		v.ActiveChannelID = ch.ID
		v.ActivePanel = SelectPanel(ch.Type)
	}
}

// canModerateLocked reports whether u may perform admin-only actions in clubID.
func (s *State) canModerateLocked(u models.User, clubID string) bool {
	if u.Role == models.RoleAdmin {
		return true
	}
	club, ok := s.clubs.Get(clubID)
	return ok && club.IsAdmin(u.ID)
}

type discard struct{}

func (discard) Publish(realtime.Event) {}
