// Package storetest provides an in-memory store for tests. It mirrors the
// ordering, uniqueness and not-found behaviour of the Postgres repositories
// and rolls back WithinTx on error.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/internal/store"
	"github.com/folioworks/portfolio/types"
)

type sessionRecord struct {
	data      session.Data
	expiresAt time.Time
}

type state struct {
	seq      int
	users    []types.User
	projects []types.Project
	posts    []types.BlogPost
	videos   []types.Video
	contacts []types.ContactMessage
	feedback []types.Feedback
	sessions map[string]sessionRecord
}

func (s state) clone() state {
	c := s
	c.users = append([]types.User(nil), s.users...)
	c.projects = append([]types.Project(nil), s.projects...)
	c.posts = append([]types.BlogPost(nil), s.posts...)
	c.videos = append([]types.Video(nil), s.videos...)
	c.contacts = append([]types.ContactMessage(nil), s.contacts...)
	c.feedback = append([]types.Feedback(nil), s.feedback...)
	c.sessions = make(map[string]sessionRecord, len(s.sessions))
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	return c
}

// Memory is a goroutine-safe fake of every repository.
type Memory struct {
	mu    sync.Mutex
	st    state
	fails map[string]error

	Users    *Users
	Projects *Projects
	Posts    *Posts
	Videos   *Videos
	Contacts *Contacts
	Feedback *Feedback
	Sessions *Sessions
}

func New() *Memory {
	m := &Memory{
		st:    state{sessions: map[string]sessionRecord{}},
		fails: map[string]error{},
	}
	m.Users = &Users{m: m}
	m.Projects = &Projects{m: m}
	m.Posts = &Posts{m: m}
	m.Videos = &Videos{m: m}
	m.Contacts = &Contacts{m: m}
	m.Feedback = &Feedback{m: m}
	m.Sessions = &Sessions{m: m}
	return m
}

// FailNext makes the next call to op (e.g. "contacts.Create") return err.
func (m *Memory) FailNext(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails[op] = err
}

func (m *Memory) takeErr(op string) error {
	err := m.fails[op]
	delete(m.fails, op)
	return err
}

func (m *Memory) nextID() int {
	m.st.seq++
	return m.st.seq
}

// WithinTx snapshots the state and restores it when fn fails or panics.
func (m *Memory) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	m.mu.Lock()
	snapshot := m.st.clone()
	m.mu.Unlock()

	rollback := func() {
		m.mu.Lock()
		seq := m.st.seq
		m.st = snapshot
		m.st.seq = seq
		m.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			err = fmt.Errorf("%w: %v", store.ErrTxPanic, p)
		}
	}()

	if err := fn(ctx); err != nil {
		rollback()
		return err
	}
	return nil
}

type Users struct{ m *Memory }

func (r *Users) GetByID(ctx context.Context, id int) (types.User, error) {
	return r.find(func(u types.User) bool { return u.ID == id })
}

func (r *Users) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return r.find(func(u types.User) bool { return u.Username == username })
}

func (r *Users) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return r.find(func(u types.User) bool { return u.Email == email })
}

func (r *Users) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, ignoreNotFound(err)
}

func (r *Users) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, ignoreNotFound(err)
}

func (r *Users) Create(ctx context.Context, user types.User) (types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.takeErr("users.Create"); err != nil {
		return types.User{}, err
	}
	for _, u := range r.m.st.users {
		if u.Username == user.Username || u.Email == user.Email {
			return types.User{}, fmt.Errorf("%w: users", store.ErrConflict)
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = types.Now()
	}
	user.ID = r.m.nextID()
	r.m.st.users = append(r.m.st.users, user)
	return user, nil
}

func (r *Users) Update(ctx context.Context, user types.User) (types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.takeErr("users.Update"); err != nil {
		return types.User{}, err
	}
	idx := -1
	for i, u := range r.m.st.users {
		if u.ID == user.ID {
			idx = i
		} else if u.Username == user.Username {
			return types.User{}, fmt.Errorf("%w: users_username_key", store.ErrConflict)
		}
	}
	if idx < 0 {
		return types.User{}, store.ErrNotFound
	}
	stored := r.m.st.users[idx]
	user.Email = stored.Email
	user.PasswordHash = stored.PasswordHash
	user.CreatedAt = stored.CreatedAt
	r.m.st.users[idx] = user
	return user, nil
}

func (r *Users) Delete(ctx context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, u := range r.m.st.users {
		if u.ID == id {
			r.m.st.users = append(r.m.st.users[:i], r.m.st.users[i+1:]...)
			for key, rec := range r.m.st.sessions {
				if rec.data.UserID == id {
					delete(r.m.st.sessions, key)
				}
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *Users) List(ctx context.Context) ([]types.User, error) {
	return r.ListRecent(ctx, -1)
}

func (r *Users) ListRecent(ctx context.Context, limit int) ([]types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	users := append([]types.User(nil), r.m.st.users...)
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return truncate(users, limit), nil
}

func (r *Users) Count(ctx context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.m.st.users), nil
}

func (r *Users) find(match func(types.User) bool) (types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.st.users {
		if match(u) {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

type Projects struct{ m *Memory }

func (r *Projects) List(ctx context.Context) ([]types.Project, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]types.Project{}, r.m.st.projects...), nil
}

func (r *Projects) Count(ctx context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.m.st.projects), nil
}

func (r *Projects) Create(ctx context.Context, p types.Project) (types.Project, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.takeErr("projects.Create"); err != nil {
		return types.Project{}, err
	}
	p.ID = r.m.nextID()
	r.m.st.projects = append(r.m.st.projects, p)
	return p, nil
}

func (r *Projects) DeleteAll(ctx context.Context) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.st.projects = nil
	return nil
}

type Posts struct{ m *Memory }

func (r *Posts) List(ctx context.Context) ([]types.BlogPost, error) {
	return r.ListLatest(ctx, -1)
}

func (r *Posts) ListLatest(ctx context.Context, limit int) ([]types.BlogPost, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	posts := append([]types.BlogPost{}, r.m.st.posts...)
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return truncate(posts, limit), nil
}

func (r *Posts) Count(ctx context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.m.st.posts), nil
}

func (r *Posts) Create(ctx context.Context, p types.BlogPost) (types.BlogPost, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.takeErr("posts.Create"); err != nil {
		return types.BlogPost{}, err
	}
	p.ID = r.m.nextID()
	r.m.st.posts = append(r.m.st.posts, p)
	return p, nil
}

func (r *Posts) DeleteAll(ctx context.Context) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.st.posts = nil
	return nil
}

type Videos struct{ m *Memory }

func (r *Videos) List(ctx context.Context) ([]types.Video, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]types.Video{}, r.m.st.videos...), nil
}

func (r *Videos) Count(ctx context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.m.st.videos), nil
}

func (r *Videos) Create(ctx context.Context, v types.Video) (types.Video, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.takeErr("videos.Create"); err != nil {
		return types.Video{}, err
	}
	v.ID = r.m.nextID()
	r.m.st.videos = append(r.m.st.videos, v)
	return v, nil
}

func (r *Videos) DeleteAll(ctx context.Context) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.st.videos = nil
	return nil
}

type Contacts struct{ m *Memory }

func (r *Contacts) Create(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.takeErr("contacts.Create"); err != nil {
		return types.ContactMessage{}, err
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = types.Now()
	}
	msg.ID = r.m.nextID()
	r.m.st.contacts = append(r.m.st.contacts, msg)
	return msg, nil
}

func (r *Contacts) GetByID(ctx context.Context, id int) (types.ContactMessage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, msg := range r.m.st.contacts {
		if msg.ID == id {
			return msg, nil
		}
	}
	return types.ContactMessage{}, store.ErrNotFound
}

func (r *Contacts) List(ctx context.Context) ([]types.ContactMessage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	msgs := append([]types.ContactMessage{}, r.m.st.contacts...)
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID > msgs[j].ID
		}
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (r *Contacts) MarkRead(ctx context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.st.contacts {
		if r.m.st.contacts[i].ID == id {
			r.m.st.contacts[i].IsRead = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *Contacts) Delete(ctx context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, msg := range r.m.st.contacts {
		if msg.ID == id {
			r.m.st.contacts = append(r.m.st.contacts[:i], r.m.st.contacts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *Contacts) Count(ctx context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.m.st.contacts), nil
}

func (r *Contacts) CountUnread(ctx context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, msg := range r.m.st.contacts {
		if !msg.IsRead {
			n++
		}
	}
	return n, nil
}

type Feedback struct{ m *Memory }

func (r *Feedback) Create(ctx context.Context, fb types.Feedback) (types.Feedback, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.takeErr("feedback.Create"); err != nil {
		return types.Feedback{}, err
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = types.Now()
	}
	fb.ID = r.m.nextID()
	r.m.st.feedback = append(r.m.st.feedback, fb)
	return fb, nil
}

func (r *Feedback) GetByID(ctx context.Context, id int) (types.Feedback, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, fb := range r.m.st.feedback {
		if fb.ID == id {
			return fb, nil
		}
	}
	return types.Feedback{}, store.ErrNotFound
}

func (r *Feedback) List(ctx context.Context) ([]types.Feedback, error) {
	return r.list(func(types.Feedback) bool { return true }, -1), nil
}

func (r *Feedback) ListApproved(ctx context.Context, limit int) ([]types.Feedback, error) {
	return r.list(func(fb types.Feedback) bool { return fb.IsApproved }, limit), nil
}

func (r *Feedback) SetApproved(ctx context.Context, id int, approved bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.st.feedback {
		if r.m.st.feedback[i].ID == id {
			r.m.st.feedback[i].IsApproved = approved
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *Feedback) Delete(ctx context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, fb := range r.m.st.feedback {
		if fb.ID == id {
			r.m.st.feedback = append(r.m.st.feedback[:i], r.m.st.feedback[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *Feedback) Count(ctx context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.m.st.feedback), nil
}

func (r *Feedback) CountPending(ctx context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, fb := range r.m.st.feedback {
		if !fb.IsApproved {
			n++
		}
	}
	return n, nil
}

func (r *Feedback) list(keep func(types.Feedback) bool, limit int) []types.Feedback {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	entries := []types.Feedback{}
	for _, fb := range r.m.st.feedback {
		if keep(fb) {
			entries = append(entries, fb)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return truncate(entries, limit)
}

// Sessions implements session.Store.
type Sessions struct{ m *Memory }

func (r *Sessions) Get(ctx context.Context, key string) (session.Data, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rec, ok := r.m.st.sessions[key]
	if !ok || !rec.expiresAt.After(time.Now()) {
		return session.Data{}, session.ErrNotFound
	}
	return rec.data, nil
}

func (r *Sessions) Set(ctx context.Context, key string, data session.Data, expiresAt time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	data.Flashes = append([]session.Flash(nil), data.Flashes...)
	r.m.st.sessions[key] = sessionRecord{data: data, expiresAt: expiresAt}
	return nil
}

func (r *Sessions) Delete(ctx context.Context, key string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.st.sessions, key)
	return nil
}

// Len reports the number of stored sessions.
func (r *Sessions) Len() int {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.m.st.sessions)
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func ignoreNotFound(err error) error {
	if err == store.ErrNotFound {
		return nil
	}
	return err
}
