package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/repository/contract"
	"interview-prep-be/internal/repository/specification"
	"interview-prep-be/internal/repository/unitofwork"
	"interview-prep-be/pkg/events"
	"interview-prep-be/pkg/llm"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the database shared by every fake unit of work.
type memStore struct {
	mu       sync.Mutex
	topics   []*entity.Topic
	versions []*entity.ContentVersion
	pointers map[uuid.UUID]*entity.CurrentVersion
	docs     []*entity.Document
	sessions []*entity.DocumentSession

	// beforeVersionInsert runs outside the lock, e.g. to line up concurrent writers.
	beforeVersionInsert func()
	failTopicInsert     func(t *entity.Topic) error
	// afterVersionFind runs outside the lock once a version lookup has returned.
	afterVersionFind func()
}

func newMemStore() *memStore {
	return &memStore{pointers: map[uuid.UUID]*entity.CurrentVersion{}}
}

func (s *memStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUnitOfWork{store: s}
}

func (s *memStore) versionsOf(topicID uuid.UUID) []*entity.ContentVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.ContentVersion
	for _, v := range s.versions {
		if v.TopicId == topicID {
			out = append(out, v)
		}
	}
	return out
}

func (s *memStore) pointerOf(topicID uuid.UUID) *entity.CurrentVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointers[topicID]
}

func (s *memStore) topicCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.topics)
}

type memUnitOfWork struct {
	store   *memStore
	inTx    bool
	pending []func()
}

func (u *memUnitOfWork) Begin(ctx context.Context) error {
	u.inTx = true
	return nil
}

func (u *memUnitOfWork) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for _, op := range u.pending {
		op()
	}
	u.pending = nil
	u.inTx = false
	return nil
}

func (u *memUnitOfWork) Rollback() error {
	u.pending = nil
	u.inTx = false
	return nil
}

// apply runs op now, or at commit time when a transaction is open.
func (u *memUnitOfWork) apply(op func()) {
	if u.inTx {
		u.pending = append(u.pending, op)
		return
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	op()
}

func (u *memUnitOfWork) TopicRepository() contract.TopicRepository { return &memTopicRepo{u} }
func (u *memUnitOfWork) ContentVersionRepository() contract.ContentVersionRepository {
	return &memVersionRepo{u}
}
func (u *memUnitOfWork) CurrentVersionRepository() contract.CurrentVersionRepository {
	return &memPointerRepo{u}
}
func (u *memUnitOfWork) DocumentRepository() contract.DocumentRepository { return &memDocRepo{u} }
func (u *memUnitOfWork) DocumentSessionRepository() contract.DocumentSessionRepository {
	return &memSessionRepo{u}
}

// filter interprets the specifications the services use.
type filter struct {
	id, owner, topic, session *uuid.UUID
	slug                      *string
	newestFirst               bool
}

func filterOf(specs []specification.Specification) filter {
	var f filter
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			f.id = &s.ID
		case specification.OwnedBy:
			f.owner = &s.OwnerID
		case specification.BySlug:
			f.slug = &s.Slug
		case specification.ByTopicID:
			f.topic = &s.TopicID
		case specification.BySessionID:
			f.session = &s.SessionID
		case specification.NewestFirst:
			f.newestFirst = true
		}
	}
	return f
}

func eq(want *uuid.UUID, got uuid.UUID) bool { return want == nil || *want == got }

type memTopicRepo struct{ u *memUnitOfWork }

func (r *memTopicRepo) Create(ctx context.Context, topic *entity.Topic) error {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	if hook := r.u.store.failTopicInsert; hook != nil {
		if err := hook(topic); err != nil {
			return err
		}
	}
	for _, t := range r.u.store.topics {
		if t.OwnerId == topic.OwnerId && t.Slug == topic.Slug {
			return contract.ErrDuplicate
		}
	}
	cp := *topic
	r.u.store.topics = append(r.u.store.topics, &cp)
	return nil
}

func (r *memTopicRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Topic, error) {
	all, _ := r.FindAll(ctx, specs...)
	if hook := r.u.store.afterVersionFind; hook != nil {
		hook()
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memTopicRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Topic, error) {
	f := filterOf(specs)
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	var out []*entity.Topic
	for _, t := range r.u.store.topics {
		if eq(f.id, t.Id) && eq(f.owner, t.OwnerId) && (f.slug == nil || *f.slug == t.Slug) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *memTopicRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memVersionRepo struct{ u *memUnitOfWork }

func (r *memVersionRepo) Create(ctx context.Context, version *entity.ContentVersion) error {
	if hook := r.u.store.beforeVersionInsert; hook != nil {
		hook()
	}
	cp := *version
	r.u.apply(func() { r.u.store.versions = append(r.u.store.versions, &cp) })
	return nil
}

func (r *memVersionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentVersion, error) {
	all, _ := r.FindAll(ctx, specs...)
	if hook := r.u.store.afterVersionFind; hook != nil {
		hook()
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memVersionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentVersion, error) {
	f := filterOf(specs)
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	var out []*entity.ContentVersion
	for _, v := range r.u.store.versions {
		if eq(f.id, v.Id) && eq(f.owner, v.OwnerId) && eq(f.topic, v.TopicId) {
			out = append(out, v)
		}
	}
	if f.newestFirst {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

type memPointerRepo struct{ u *memUnitOfWork }

func (r *memPointerRepo) Upsert(ctx context.Context, pointer *entity.CurrentVersion) error {
	cp := *pointer
	r.u.apply(func() { r.u.store.pointers[cp.TopicId] = &cp })
	return nil
}

func (r *memPointerRepo) FindByTopicID(ctx context.Context, topicID uuid.UUID) (*entity.CurrentVersion, error) {
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	p, ok := r.u.store.pointers[topicID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPointerRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CurrentVersion, error) {
	f := filterOf(specs)
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	var out []*entity.CurrentVersion
	for _, p := range r.u.store.pointers {
		if eq(f.owner, p.OwnerId) && eq(f.topic, p.TopicId) {
			out = append(out, p)
		}
	}
	return out, nil
}

type memDocRepo struct{ u *memUnitOfWork }

func (r *memDocRepo) Create(ctx context.Context, doc *entity.Document) error {
	cp := *doc
	r.u.apply(func() { r.u.store.docs = append(r.u.store.docs, &cp) })
	return nil
}

func (r *memDocRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	f := filterOf(specs)
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	var out []*entity.Document
	for _, d := range r.u.store.docs {
		if !eq(f.owner, d.OwnerId) {
			continue
		}
		if f.session != nil && (d.SessionId == nil || *d.SessionId != *f.session) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

type memSessionRepo struct{ u *memUnitOfWork }

func (r *memSessionRepo) Create(ctx context.Context, session *entity.DocumentSession) error {
	cp := *session
	r.u.apply(func() { r.u.store.sessions = append(r.u.store.sessions, &cp) })
	return nil
}

func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSession, error) {
	all, _ := r.FindAll(ctx, specs...)
	if hook := r.u.store.afterVersionFind; hook != nil {
		hook()
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentSession, error) {
	f := filterOf(specs)
	r.u.store.mu.Lock()
	defer r.u.store.mu.Unlock()
	var out []*entity.DocumentSession
	for _, s := range r.u.store.sessions {
		if eq(f.id, s.Id) && eq(f.owner, s.OwnerId) {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeLLM answers every call through fn and counts calls.
type fakeLLM struct {
	calls atomic.Int32
	mu    sync.Mutex
	tiers []llm.Tier
	fn    func(history []llm.Message) (string, error)
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls.Add(1)
	opts := llm.Apply(llm.Options{}, options...)
	f.mu.Lock()
	f.tiers = append(f.tiers, opts.Tier)
	f.mu.Unlock()
	return f.fn(history)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}
