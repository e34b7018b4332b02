package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"interview-prep-be/internal/dto"
	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/pkg/logger"
	"interview-prep-be/pkg/apperror"
	"interview-prep-be/pkg/events"
	"interview-prep-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var batchTitles = []string{
	"Kafka Consumer Groups",
	"PostgreSQL Indexing",
	"Redis Caching Strategies",
	"Kubernetes Deployments",
	"Event Sourcing",
	"gRPC Service Design",
	"Observability with OpenTelemetry",
	"Terraform Modules",
}

func proposalAnswer(titles []string) string {
	topics := make([]map[string]interface{}, len(titles))
	for i, title := range titles {
		topics[i] = map[string]interface{}{"title": title, "category": "Backend", "sort_order": i}
	}
	raw, _ := json.Marshal(map[string]interface{}{"topics": topics})
	return "```json\n" + string(raw) + "\n```"
}

// routingLLM answers proposal prompts with proposals and content prompts with content.
func routingLLM(proposal string) *fakeLLM {
	return &fakeLLM{fn: func(history []llm.Message) (string, error) {
		if strings.Contains(history[len(history)-1].Content, "<documents>") {
			return proposal, nil
		}
		return contentAnswer, nil
	}}
}

func docsRequest() *dto.CreateTopicsFromDocumentsRequest {
	return &dto.CreateTopicsFromDocumentsRequest{
		Documents: []dto.SourceDocumentRequest{
			{Name: "resume.md", Content: "Five years building event-driven backends in Go."},
			{Name: "", Content: "   "},
		},
	}
}

func TestCreateTopicsFromDocumentsReusesCollidingSlug(t *testing.T) {
	env := newTestEnv(routingLLM(proposalAnswer(batchTitles)))
	owner := uuid.New()
	ctx := context.Background()

	// #5 already exists with content
	existing := seedTopic(t, env.store, owner, "Event Sourcing", "event-sourcing")
	_, err := env.content.Attach(ctx, existing, "", entity.GeneratedContent{Script: "existing"})
	require.NoError(t, err)
	callsBefore := env.llm.calls.Load()

	summary, err := env.topics.CreateTopicsFromDocuments(ctx, owner, docsRequest())
	require.NoError(t, err)

	assert.Equal(t, 7, summary.TopicsCreated)
	assert.Len(t, summary.Topics, 8)
	assert.Len(t, summary.Results, 8)
	assert.Empty(t, summary.Failures)
	assert.Equal(t, 8, env.store.topicCount())
	// one proposal call plus content for the seven new topics
	assert.Equal(t, int32(8), env.llm.calls.Load()-callsBefore)

	for _, res := range summary.Results {
		require.NotNil(t, res.Topic)
		assert.Equal(t, string(entity.TopicStateWithContent), res.Topic.State)
		if res.Slug == "event-sourcing" {
			assert.False(t, res.Created)
			assert.False(t, res.ContentGenerated)
			assert.Equal(t, existing.Id, res.Topic.Id)
			continue
		}
		assert.True(t, res.Created, res.Slug)
		assert.True(t, res.ContentGenerated, res.Slug)
	}
	assert.Len(t, env.store.versionsOf(existing.Id), 1)
	assert.Equal(t, 7, env.publisher.count(events.TopicCreated))
}

func TestCreateTopicsFromDocumentsRerunCreatesNothing(t *testing.T) {
	env := newTestEnv(routingLLM(proposalAnswer(batchTitles[:3])))
	owner := uuid.New()
	ctx := context.Background()

	first, err := env.topics.CreateTopicsFromDocuments(ctx, owner, docsRequest())
	require.NoError(t, err)
	require.Equal(t, 3, first.TopicsCreated)

	second, err := env.topics.CreateTopicsFromDocuments(ctx, owner, docsRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, second.TopicsCreated)
	assert.Len(t, second.Topics, 3)
	assert.Equal(t, 3, env.store.topicCount())
	for i := range first.Topics {
		assert.Equal(t, first.Topics[i].Id, second.Topics[i].Id)
		assert.Equal(t, first.Topics[i].CurrentVersionId, second.Topics[i].CurrentVersionId)
	}
}

func TestCreateTopicsFromDocumentsConcurrentInsertIsReused(t *testing.T) {
	env := newTestEnv(routingLLM(proposalAnswer(batchTitles[:1])))
	owner := uuid.New()
	raced := false

	// another request inserts the same slug between lookup and insert
	env.store.failTopicInsert = func(topic *entity.Topic) error {
		if raced {
			return nil
		}
		raced = true
		cp := *topic
		cp.Id = uuid.New()
		env.store.topics = append(env.store.topics, &cp)
		return nil
	}

	summary, err := env.topics.CreateTopicsFromDocuments(context.Background(), owner, docsRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TopicsCreated)
	assert.Len(t, summary.Topics, 1)
	assert.Equal(t, 1, env.store.topicCount())
}

func TestCreateTopicsFromDocumentsContentFailureKeepsTopic(t *testing.T) {
	env := newTestEnv(&fakeLLM{fn: func(history []llm.Message) (string, error) {
		if strings.Contains(history[len(history)-1].Content, "<documents>") {
			return proposalAnswer(batchTitles[:2]), nil
		}
		return "", &apperror.UpstreamError{StatusCode: 503}
	}})

	summary, err := env.topics.CreateTopicsFromDocuments(context.Background(), uuid.New(), docsRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TopicsCreated)
	require.Len(t, summary.Failures, 2)
	assert.Equal(t, stageContent, summary.Failures[0].Stage)
	for _, topic := range summary.Topics {
		assert.Equal(t, string(entity.TopicStateNoContent), topic.State)
	}
}

func TestCreateTopicsFromDocumentsProposalFailureFailsCall(t *testing.T) {
	env := newTestEnv(&fakeLLM{fn: func([]llm.Message) (string, error) { return "no json here", nil }})

	_, err := env.topics.CreateTopicsFromDocuments(context.Background(), uuid.New(), docsRequest())

	var parseErr *apperror.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 0, env.store.topicCount())
}

func TestCreateTopicsFromDocumentsRequiresMaterial(t *testing.T) {
	env := newTestEnv(routingLLM(proposalAnswer(batchTitles)))

	_, err := env.topics.CreateTopicsFromDocuments(context.Background(), uuid.New(), &dto.CreateTopicsFromDocumentsRequest{
		Documents: []dto.SourceDocumentRequest{{Content: "  "}},
	})

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, int32(0), env.llm.calls.Load())
}

func TestCreateTopicsFromDocumentsUsesOwnedSession(t *testing.T) {
	env := newTestEnv(routingLLM(proposalAnswer(batchTitles[:1])))
	owner := uuid.New()
	ctx := context.Background()
	docs := NewDocumentService(env.store, logger.NewNopLogger())

	session, err := docs.CreateSession(ctx, owner, &dto.CreateDocumentSessionRequest{Name: "Backend role"})
	require.NoError(t, err)
	_, err = docs.CreateDocument(ctx, owner, &dto.CreateDocumentRequest{Name: "jd.txt", Content: "Kafka and Postgres", SessionId: &session.Id})
	require.NoError(t, err)

	summary, err := env.topics.CreateTopicsFromDocuments(ctx, owner, &dto.CreateTopicsFromDocumentsRequest{SessionId: &session.Id})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TopicsCreated)

	_, err = env.topics.CreateTopicsFromDocuments(ctx, uuid.New(), &dto.CreateTopicsFromDocumentsRequest{SessionId: &session.Id})
	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCreateDefaultTopics(t *testing.T) {
	env := newTestEnv(routingLLM(""))
	owner := uuid.New()
	ctx := context.Background()

	summary, err := env.topics.CreateDefaultTopics(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TopicsCreated)
	require.Len(t, summary.Topics, 4)
	assert.Equal(t, "tell-me-about-yourself", summary.Topics[0].Slug)
	assert.Equal(t, "Behavioral", summary.Topics[0].Category)
	for _, topic := range summary.Topics {
		assert.Equal(t, string(entity.TopicStateNoContent), topic.State)
	}
	assert.Equal(t, int32(0), env.llm.calls.Load())

	again, err := env.topics.CreateDefaultTopics(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, again.TopicsCreated)
	assert.Len(t, again.Topics, 4)
	assert.Equal(t, 4, env.store.topicCount())
}

func TestCreateDefaultTopicsSkipsOwnersWithTopics(t *testing.T) {
	env := newTestEnv(routingLLM(""))
	owner := uuid.New()
	seedTopic(t, env.store, owner, "Custom", "custom")

	summary, err := env.topics.CreateDefaultTopics(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TopicsCreated)
	assert.Len(t, summary.Topics, 1)
}

func TestRegenerateContent(t *testing.T) {
	var prompts []string
	env := newTestEnv(&fakeLLM{fn: func(history []llm.Message) (string, error) {
		prompts = append(prompts, history[len(history)-1].Content)
		return contentAnswer, nil
	}})
	owner := uuid.New()
	ctx := context.Background()
	topic := seedTopic(t, env.store, owner, "Kafka", "kafka")

	first, err := env.topics.RegenerateContent(ctx, owner, topic.Id, &dto.RegenerateContentRequest{})
	require.NoError(t, err)
	second, err := env.topics.RegenerateContent(ctx, owner, topic.Id, &dto.RegenerateContentRequest{Title: "Kafka Exactly Once"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Content.Id, second.Content.Id)
	assert.Equal(t, "Kafka", second.Topic.Title)
	assert.Equal(t, "kafka", second.Topic.Slug)
	assert.Contains(t, prompts[1], "Kafka Exactly Once")
	assert.Equal(t, second.Content.Id, env.store.pointerOf(topic.Id).VersionId)
	assert.Len(t, env.store.versionsOf(topic.Id), 2)
}

func TestRegenerateContentUnknownTopic(t *testing.T) {
	env := newTestEnv(routingLLM(""))
	owner := uuid.New()
	foreign := seedTopic(t, env.store, uuid.New(), "Kafka", "kafka")

	for _, id := range []uuid.UUID{uuid.New(), foreign.Id} {
		_, err := env.topics.RegenerateContent(context.Background(), owner, id, &dto.RegenerateContentRequest{})
		var notFound *apperror.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	}
	assert.Equal(t, int32(0), env.llm.calls.Load())
}

func TestCreateTopic(t *testing.T) {
	env := newTestEnv(routingLLM(""))
	owner := uuid.New()
	ctx := context.Background()
	seedTopic(t, env.store, owner, "Existing", "existing")

	detail, err := env.topics.CreateTopic(ctx, owner, &dto.CreateTopicRequest{Title: "  Distributed Locks ", Category: "Databases"})
	require.NoError(t, err)

	assert.Equal(t, "Distributed Locks", detail.Topic.Title)
	assert.Equal(t, "distributed-locks", detail.Topic.Slug)
	assert.Equal(t, 1, detail.Topic.SortOrder)
	assert.Equal(t, "database", detail.Topic.Icon)
	assert.Equal(t, string(entity.TopicStateWithContent), detail.Topic.State)
	require.NotNil(t, detail.Content)
	assert.True(t, detail.Content.IsCurrent)

	_, err = env.topics.CreateTopic(ctx, owner, &dto.CreateTopicRequest{Title: "Distributed locks!"})
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)

	_, err = env.topics.CreateTopic(ctx, owner, &dto.CreateTopicRequest{Title: "!!!"})
	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateTopicKeepsTopicWhenGenerationFails(t *testing.T) {
	env := newTestEnv(&fakeLLM{fn: func([]llm.Message) (string, error) {
		return "", errors.New("connection reset")
	}})
	owner := uuid.New()

	_, err := env.topics.CreateTopic(context.Background(), owner, &dto.CreateTopicRequest{Title: "Sharding"})
	require.Error(t, err)

	topics, err := env.topics.ListTopics(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "General", topics[0].Category)
	assert.Equal(t, string(entity.TopicStateNoContent), topics[0].State)
}

func TestGetTopicUsesCacheUntilContentChanges(t *testing.T) {
	env := newTestEnv(routingLLM(""))
	owner := uuid.New()
	ctx := context.Background()
	topic := seedTopic(t, env.store, owner, "Kafka", "kafka")

	empty, err := env.topics.GetTopic(ctx, owner, topic.Id)
	require.NoError(t, err)
	assert.Nil(t, empty.Content)

	// a stale row in the store is hidden by the cached detail
	env.store.mu.Lock()
	env.store.topics[0].Title = "Renamed"
	env.store.mu.Unlock()
	cached, err := env.topics.GetTopic(ctx, owner, topic.Id)
	require.NoError(t, err)
	assert.Equal(t, "Kafka", cached.Topic.Title)

	_, err = env.content.Generate(ctx, topic, "")
	require.NoError(t, err)

	fresh, err := env.topics.GetTopic(ctx, owner, topic.Id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fresh.Topic.Title)
	require.NotNil(t, fresh.Content)
	assert.True(t, fresh.Content.IsCurrent)
}

func TestGetTopicDoesNotCacheDetailOvertakenByWrite(t *testing.T) {
	env := newTestEnv(routingLLM(""))
	owner := uuid.New()
	ctx := context.Background()
	topic := seedTopic(t, env.store, owner, "Kafka", "kafka")

	first, err := env.content.Generate(ctx, topic, "")
	require.NoError(t, err)

	var second *entity.ContentVersion
	env.store.afterVersionFind = func() {
		env.store.afterVersionFind = nil
		second, err = env.content.Generate(ctx, topic, "")
		require.NoError(t, err)
	}

	raced, err := env.topics.GetTopic(ctx, owner, topic.Id)
	require.NoError(t, err)
	require.NotNil(t, raced.Content)
	assert.Equal(t, first.Id, raced.Content.Id)
	require.NotNil(t, second)

	fresh, err := env.topics.GetTopic(ctx, owner, topic.Id)
	require.NoError(t, err)
	require.NotNil(t, fresh.Content)
	assert.Equal(t, second.Id, fresh.Content.Id)
}

func TestListVersionsAndSetCurrentVersion(t *testing.T) {
	env := newTestEnv(routingLLM(""))
	owner := uuid.New()
	ctx := context.Background()
	topic := seedTopic(t, env.store, owner, "Kafka", "kafka")
	other := seedTopic(t, env.store, owner, "Redis", "redis")

	first, err := env.content.Generate(ctx, topic, "")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := env.content.Generate(ctx, topic, "")
	require.NoError(t, err)
	foreign, err := env.content.Generate(ctx, other, "")
	require.NoError(t, err)

	versions, err := env.topics.ListVersions(ctx, owner, topic.Id)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, second.Id, versions[0].Id)
	assert.True(t, versions[0].IsCurrent)
	assert.False(t, versions[1].IsCurrent)

	detail, err := env.topics.SetCurrentVersion(ctx, owner, topic.Id, &dto.SetCurrentVersionRequest{VersionId: first.Id})
	require.NoError(t, err)
	assert.Equal(t, first.Id, *detail.Topic.CurrentVersionId)
	assert.Equal(t, first.Id, env.store.pointerOf(topic.Id).VersionId)

	_, err = env.topics.SetCurrentVersion(ctx, owner, topic.Id, &dto.SetCurrentVersionRequest{VersionId: foreign.Id})
	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, first.Id, env.store.pointerOf(topic.Id).VersionId)
}

func TestListTopicsOrderAndState(t *testing.T) {
	env := newTestEnv(routingLLM(""))
	owner := uuid.New()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		topic := seedTopic(t, env.store, owner, fmt.Sprintf("Topic %d", i), fmt.Sprintf("topic-%d", i))
		env.store.mu.Lock()
		env.store.topics[i].SortOrder = 2 - i
		env.store.mu.Unlock()
		if i == 0 {
			_, err := env.content.Generate(ctx, topic, "")
			require.NoError(t, err)
		}
	}

	topics, err := env.topics.ListTopics(ctx, owner)
	require.NoError(t, err)
	require.Len(t, topics, 3)
	assert.Equal(t, "topic-2", topics[0].Slug)
	assert.Equal(t, "topic-0", topics[2].Slug)
	assert.Equal(t, string(entity.TopicStateWithContent), topics[2].State)
	assert.Equal(t, string(entity.TopicStateNoContent), topics[0].State)
}
