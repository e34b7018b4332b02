//go:build integration

package unitofwork_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/repository/contract"
	"interview-prep-be/internal/repository/specification"
	"interview-prep-be/internal/repository/unitofwork"
	"interview-prep-be/internal/testhelper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTopic(owner uuid.UUID, slug string) *entity.Topic {
	return &entity.Topic{Id: uuid.New(), OwnerId: owner, Title: slug, Slug: slug, Category: "General", CreatedAt: time.Now().UTC()}
}

func newVersion(topic *entity.Topic) *entity.ContentVersion {
	return &entity.ContentVersion{
		Id:             uuid.New(),
		TopicId:        topic.Id,
		OwnerId:        topic.OwnerId,
		Bullets:        []string{"one"},
		Script:         "script",
		CrossQuestions: []entity.CrossQuestion{entity.PlainQuestion("why?"), entity.QuestionAnswer("how?", "like this")},
		Meta:           map[string]interface{}{"origin": "generated"},
		CreatedAt:      time.Now().UTC(),
	}
}

func TestTopicSlugIsUniquePerOwner(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	owner := uuid.New()

	require.NoError(t, uow.TopicRepository().Create(ctx, newTopic(owner, "kafka")))

	err := uow.TopicRepository().Create(ctx, newTopic(owner, "kafka"))
	assert.True(t, errors.Is(err, contract.ErrDuplicate), "got %v", err)

	require.NoError(t, uow.TopicRepository().Create(ctx, newTopic(uuid.New(), "kafka")))

	found, err := uow.TopicRepository().FindOne(ctx, specification.OwnedBy{OwnerID: owner}, specification.BySlug{Slug: "kafka"})
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := uow.TopicRepository().FindOne(ctx, specification.OwnedBy{OwnerID: owner}, specification.BySlug{Slug: "redis"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestVersionAndPointerRoundTrip(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)
	topic := newTopic(uuid.New(), "kafka")
	require.NoError(t, factory.NewUnitOfWork(ctx).TopicRepository().Create(ctx, topic))

	var written []*entity.ContentVersion
	for i := 0; i < 2; i++ {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		v := newVersion(topic)
		require.NoError(t, uow.ContentVersionRepository().Create(ctx, v))
		require.NoError(t, uow.CurrentVersionRepository().Upsert(ctx, &entity.CurrentVersion{
			TopicId: topic.Id, VersionId: v.Id, OwnerId: topic.OwnerId, UpdatedAt: time.Now().UTC(),
		}))
		require.NoError(t, uow.Commit())
		written = append(written, v)
	}

	uow := factory.NewUnitOfWork(ctx)
	pointer, err := uow.CurrentVersionRepository().FindByTopicID(ctx, topic.Id)
	require.NoError(t, err)
	require.NotNil(t, pointer)
	assert.Equal(t, written[1].Id, pointer.VersionId)

	versions, err := uow.ContentVersionRepository().FindAll(ctx, specification.ByTopicID{TopicID: topic.Id}, specification.NewestFirst{})
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, written[1].Id, versions[0].Id)
	assert.Equal(t, written[0].CrossQuestions, versions[1].CrossQuestions)
	assert.Equal(t, "generated", versions[1].Meta["origin"])
}

func TestRollbackDiscardsVersionAndPointer(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)
	topic := newTopic(uuid.New(), "kafka")
	require.NoError(t, factory.NewUnitOfWork(ctx).TopicRepository().Create(ctx, topic))

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	v := newVersion(topic)
	require.NoError(t, uow.ContentVersionRepository().Create(ctx, v))
	// pointer to a version that does not exist violates the foreign key
	err := uow.CurrentVersionRepository().Upsert(ctx, &entity.CurrentVersion{
		TopicId: topic.Id, VersionId: uuid.New(), OwnerId: topic.OwnerId, UpdatedAt: time.Now().UTC(),
	})
	require.Error(t, err)
	require.NoError(t, uow.Rollback())

	reader := factory.NewUnitOfWork(ctx)
	pointer, err := reader.CurrentVersionRepository().FindByTopicID(ctx, topic.Id)
	require.NoError(t, err)
	assert.Nil(t, pointer)
	versions, err := reader.ContentVersionRepository().FindAll(ctx, specification.ByTopicID{TopicID: topic.Id})
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestDocumentsBySession(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	owner := uuid.New()

	session := &entity.DocumentSession{Id: uuid.New(), OwnerId: owner, Name: "role", CreatedAt: time.Now().UTC()}
	require.NoError(t, uow.DocumentSessionRepository().Create(ctx, session))
	require.NoError(t, uow.DocumentRepository().Create(ctx, &entity.Document{Id: uuid.New(), OwnerId: owner, SessionId: &session.Id, Name: "a", Content: "x", CreatedAt: time.Now().UTC()}))
	require.NoError(t, uow.DocumentRepository().Create(ctx, &entity.Document{Id: uuid.New(), OwnerId: owner, Name: "b", Content: "y", CreatedAt: time.Now().UTC()}))

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.OwnedBy{OwnerID: owner}, specification.BySessionID{SessionID: session.Id})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].Name)
}
