package service

import (
	"context"
	"fmt"
	"time"

	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/pkg/logger"
	"interview-prep-be/internal/repository/cache"
	"interview-prep-be/internal/repository/unitofwork"
	"interview-prep-be/pkg/apperror"
	"interview-prep-be/pkg/events"
	"interview-prep-be/pkg/llm"
	"interview-prep-be/pkg/prep/prompt"
	"interview-prep-be/pkg/prep/response"
	"interview-prep-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	originGenerated = "generated"
	originProposal  = "proposal"
)

// IContentService turns a topic and its source notes into a persisted content version.
type IContentService interface {
	// Generate runs prompt -> model -> parse -> persist and makes the new version current.
	Generate(ctx context.Context, topic *entity.Topic, sourceNotes string) (*entity.ContentVersion, error)
	// Attach persists content that was produced elsewhere, e.g. alongside a topic proposal.
	Attach(ctx context.Context, topic *entity.Topic, sourceNotes string, content entity.GeneratedContent) (*entity.ContentVersion, error)
}

type ContentSettings struct {
	Style          prompt.Style
	SourceMaxChars int
}

type contentService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.LLMProvider
	builder    *prompt.Builder
	settings   ContentSettings
	cache      cache.Cache
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewContentService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	builder *prompt.Builder,
	settings ContentSettings,
	cache cache.Cache,
	publisher events.Publisher,
	log logger.ILogger,
) IContentService {
	return &contentService{
		uowFactory: uowFactory,
		provider:   provider,
		builder:    builder,
		settings:   settings,
		cache:      cache,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *contentService) Generate(ctx context.Context, topic *entity.Topic, sourceNotes string) (*entity.ContentVersion, error) {
	notes := utils.Truncate(sourceNotes, s.settings.SourceMaxChars)
	p := s.builder.BuildContent(prompt.ContentInput{
		Title:       topic.Title,
		SourceNotes: notes,
		Style:       s.settings.Style,
	})

	raw, err := s.provider.Chat(ctx, p.Messages(), llm.WithTier(llm.TierPowerful))
	if err != nil {
		return nil, fmt.Errorf("generate content for %s: %w", topic.Slug, err)
	}

	obj, err := response.Parse(raw)
	if err != nil {
		s.logger.Warn("ContentService", "Model answer is not JSON", map[string]interface{}{
			"topic_id": topic.Id,
			"raw_len":  len(raw),
		})
		return nil, fmt.Errorf("generate content for %s: %w", topic.Slug, err)
	}

	content := response.NormalizeContent(obj, topic.Title)
	meta := map[string]interface{}{
		"origin":             originGenerated,
		"model_tier":         string(llm.TierPowerful),
		"style":              string(s.settings.Style),
		"meaningful_source":  s.builder.Policy().IsMeaningful(notes),
		"fallback_questions": content.UsedFallback,
	}
	return s.write(ctx, topic, sourceNotes, content, meta)
}

func (s *contentService) Attach(ctx context.Context, topic *entity.Topic, sourceNotes string, content entity.GeneratedContent) (*entity.ContentVersion, error) {
	if len(content.CrossQuestions) == 0 {
		content.CrossQuestions = response.FallbackQuestions(topic.Title)
		content.UsedFallback = true
	}
	if content.Bullets == nil {
		content.Bullets = []string{}
	}
	meta := map[string]interface{}{
		"origin":             originProposal,
		"style":              string(s.settings.Style),
		"fallback_questions": content.UsedFallback,
	}
	return s.write(ctx, topic, sourceNotes, content, meta)
}

// write inserts the version and moves the pointer in one transaction.
// Concurrent writers for the same topic each commit their own version; the last upsert wins.
func (s *contentService) write(ctx context.Context, topic *entity.Topic, sourceNotes string, content entity.GeneratedContent, meta map[string]interface{}) (*entity.ContentVersion, error) {
	if len(content.CrossQuestions) == 0 {
		return nil, &apperror.ValidationError{Message: "content version needs at least one cross question"}
	}
	content.CrossQuestions = entity.ConformQuestions(content.CrossQuestions, questionKind(s.settings.Style))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("begin transaction", err)
	}
	defer uow.Rollback()

	now := time.Now().UTC()
	version := &entity.ContentVersion{
		Id:             uuid.New(),
		TopicId:        topic.Id,
		OwnerId:        topic.OwnerId,
		SourceNotes:    sourceNotes,
		Bullets:        content.Bullets,
		Script:         content.Script,
		CrossQuestions: content.CrossQuestions,
		Meta:           meta,
		CreatedAt:      now,
	}
	if err := uow.ContentVersionRepository().Create(ctx, version); err != nil {
		return nil, apperror.Persistence("insert content version", err)
	}

	pointer := &entity.CurrentVersion{
		TopicId:   topic.Id,
		VersionId: version.Id,
		OwnerId:   topic.OwnerId,
		UpdatedAt: now,
	}
	if err := uow.CurrentVersionRepository().Upsert(ctx, pointer); err != nil {
		return nil, apperror.Persistence("upsert current version", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence("commit content version", err)
	}

	s.cache.Delete(ctx, cache.TopicDetailKey(topic.OwnerId, topic.Id), cache.TopicListKey(topic.OwnerId))
	publish(ctx, s.publisher, s.logger, events.NewContentGenerated(topic.Id, topic.OwnerId, version.Id))

	s.logger.Info("ContentService", "Content version written", map[string]interface{}{
		"topic_id":   topic.Id,
		"version_id": version.Id,
		"fallback":   content.UsedFallback,
	})
	return version, nil
}

// questionKind maps the deployment style onto the one shape every stored version uses.
func questionKind(style prompt.Style) entity.QuestionKind {
	if style == prompt.StylePlain {
		return entity.QuestionKindPlain
	}
	return entity.QuestionKindPair
}

// publish is best effort: a lost event only delays a dashboard refresh.
func publish(ctx context.Context, publisher events.Publisher, log logger.ILogger, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Events", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err,
		})
	}
}
