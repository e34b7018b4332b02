package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"interview-prep-be/internal/constant"
	"interview-prep-be/internal/dto"
	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/pkg/logger"
	"interview-prep-be/internal/repository/cache"
	"interview-prep-be/internal/repository/contract"
	"interview-prep-be/internal/repository/specification"
	"interview-prep-be/internal/repository/unitofwork"
	"interview-prep-be/pkg/apperror"
	"interview-prep-be/pkg/events"
	"interview-prep-be/pkg/llm"
	"interview-prep-be/pkg/prep/prompt"
	"interview-prep-be/pkg/prep/response"
	"interview-prep-be/pkg/prep/slug"
	"interview-prep-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	stageTopic   = "topic"
	stageContent = "content"
)

type ITopicService interface {
	CreateDefaultTopics(ctx context.Context, ownerId uuid.UUID) (*dto.BatchSummaryResponse, error)
	CreateTopicsFromDocuments(ctx context.Context, ownerId uuid.UUID, req *dto.CreateTopicsFromDocumentsRequest) (*dto.BatchSummaryResponse, error)
	RegenerateContent(ctx context.Context, ownerId uuid.UUID, topicId uuid.UUID, req *dto.RegenerateContentRequest) (*dto.TopicDetailResponse, error)
	CreateTopic(ctx context.Context, ownerId uuid.UUID, req *dto.CreateTopicRequest) (*dto.TopicDetailResponse, error)
	ListTopics(ctx context.Context, ownerId uuid.UUID) ([]dto.TopicResponse, error)
	GetTopic(ctx context.Context, ownerId uuid.UUID, topicId uuid.UUID) (*dto.TopicDetailResponse, error)
	ListVersions(ctx context.Context, ownerId uuid.UUID, topicId uuid.UUID) ([]*dto.ContentVersionResponse, error)
	SetCurrentVersion(ctx context.Context, ownerId uuid.UUID, topicId uuid.UUID, req *dto.SetCurrentVersionRequest) (*dto.TopicDetailResponse, error)
}

type TopicSettings struct {
	Style               prompt.Style
	MaxProposedTopics   int
	SourceMaxChars      int
	ProposalWithContent bool
	CacheTTL            time.Duration
}

type topicService struct {
	uowFactory     unitofwork.RepositoryFactory
	contentService IContentService
	provider       llm.LLMProvider
	builder        *prompt.Builder
	settings       TopicSettings
	cache          cache.Cache
	publisher      events.Publisher
	logger         logger.ILogger
}

func NewTopicService(
	uowFactory unitofwork.RepositoryFactory,
	contentService IContentService,
	provider llm.LLMProvider,
	builder *prompt.Builder,
	settings TopicSettings,
	cache cache.Cache,
	publisher events.Publisher,
	log logger.ILogger,
) ITopicService {
	return &topicService{
		uowFactory:     uowFactory,
		contentService: contentService,
		provider:       provider,
		builder:        builder,
		settings:       settings,
		cache:          cache,
		publisher:      publisher,
		logger:         log,
	}
}

// topicSeed describes a topic to look up or insert.
type topicSeed struct {
	Title     string
	Slug      string
	Category  string
	Icon      string
	Color     string
	SortOrder int
}

func (s *topicService) CreateDefaultTopics(ctx context.Context, ownerId uuid.UUID) (*dto.BatchSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.TopicRepository().Count(ctx, specification.OwnedBy{OwnerID: ownerId})
	if err != nil {
		return nil, apperror.Persistence("count topics", err)
	}

	summary := newBatchSummary()
	if count > 0 {
		topics, err := s.ListTopics(ctx, ownerId)
		if err != nil {
			return nil, err
		}
		summary.Topics = topics
		return summary, nil
	}

	for i, def := range constant.DefaultTopics {
		style := constant.StyleFor(def.Category)
		seed := topicSeed{
			Title:     def.Title,
			Slug:      slug.Make(def.Title),
			Category:  def.Category,
			Icon:      style.Icon,
			Color:     style.Color,
			SortOrder: i,
		}

		topic, created, err := s.resolveTopic(ctx, ownerId, seed)
		if err != nil {
			recordFailure(summary, seed, stageTopic, err)
			s.logger.Error("TopicService", "Failed to create default topic", map[string]interface{}{"slug": seed.Slug, "error": err})
			continue
		}
		recordResult(summary, topic, nil, created, false, nil)
	}

	s.invalidateList(ctx, ownerId)
	return summary, nil
}

func (s *topicService) CreateTopicsFromDocuments(ctx context.Context, ownerId uuid.UUID, req *dto.CreateTopicsFromDocumentsRequest) (*dto.BatchSummaryResponse, error) {
	docs, err := s.collectDocuments(ctx, ownerId, req)
	if err != nil {
		return nil, err
	}

	proposals, err := s.proposeTopics(ctx, docs)
	if err != nil {
		return nil, err
	}

	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	combined := utils.JoinNonBlank(contents, "\n\n")

	summary := newBatchSummary()
	for _, p := range proposals {
		seed := topicSeed{
			Title:     p.Title,
			Slug:      p.Slug,
			Category:  p.Category,
			Icon:      p.Icon,
			Color:     p.Color,
			SortOrder: p.SortOrder,
		}

		topic, created, err := s.resolveTopic(ctx, ownerId, seed)
		if err != nil {
			recordFailure(summary, seed, stageTopic, err)
			s.logger.Error("TopicService", "Skipping proposed topic", map[string]interface{}{"slug": seed.Slug, "error": err})
			continue
		}

		current, generated, err := s.ensureContent(ctx, topic, combined, p)
		if err != nil {
			recordResult(summary, topic, nil, created, false, err)
			summary.Failures = append(summary.Failures, dto.TopicFailure{Slug: seed.Slug, Stage: stageContent, Error: err.Error()})
			s.logger.Error("TopicService", "Content generation failed, topic kept without content", map[string]interface{}{
				"topic_id": topic.Id,
				"error":    err,
			})
			continue
		}
		recordResult(summary, topic, current, created, generated, nil)
	}

	s.invalidateList(ctx, ownerId)
	s.logger.Info("TopicService", "Topics created from documents", map[string]interface{}{
		"owner_id":       ownerId,
		"proposed":       len(proposals),
		"topics_created": summary.TopicsCreated,
		"failures":       len(summary.Failures),
	})
	return summary, nil
}

// ensureContent leaves topics that already have a current version untouched.
func (s *topicService) ensureContent(ctx context.Context, topic *entity.Topic, sourceNotes string, p response.TopicProposal) (*entity.CurrentVersion, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	current, err := uow.CurrentVersionRepository().FindByTopicID(ctx, topic.Id)
	if err != nil {
		return nil, false, apperror.Persistence("find current version", err)
	}
	if current != nil {
		return current, false, nil
	}

	var version *entity.ContentVersion
	if p.HasContent() {
		version, err = s.contentService.Attach(ctx, topic, sourceNotes, *p.Content)
	} else {
		version, err = s.contentService.Generate(ctx, topic, sourceNotes)
	}
	if err != nil {
		return nil, false, err
	}
	return &entity.CurrentVersion{TopicId: topic.Id, VersionId: version.Id, OwnerId: topic.OwnerId, UpdatedAt: version.CreatedAt}, true, nil
}

func (s *topicService) collectDocuments(ctx context.Context, ownerId uuid.UUID, req *dto.CreateTopicsFromDocumentsRequest) ([]prompt.SourceDocument, error) {
	docs := make([]prompt.SourceDocument, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, prompt.SourceDocument{Name: d.Name, Content: d.Content})
	}

	if req.SessionId != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		session, err := uow.DocumentSessionRepository().FindOne(ctx,
			specification.ByID{ID: *req.SessionId},
			specification.OwnedBy{OwnerID: ownerId},
		)
		if err != nil {
			return nil, apperror.Persistence("find document session", err)
		}
		if session == nil {
			return nil, &apperror.NotFoundError{Resource: "document session"}
		}

		stored, err := uow.DocumentRepository().FindAll(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.OwnedBy{OwnerID: ownerId},
			specification.OrderBy{Field: "created_at"},
		)
		if err != nil {
			return nil, apperror.Persistence("find documents", err)
		}
		for _, d := range stored {
			docs = append(docs, prompt.SourceDocument{Name: d.Name, Content: d.Content})
		}
	}

	nonBlank := docs[:0]
	for _, d := range docs {
		if strings.TrimSpace(d.Content) != "" {
			nonBlank = append(nonBlank, d)
		}
	}
	if len(nonBlank) == 0 {
		return nil, &apperror.ValidationError{Message: "at least one non-empty document is required"}
	}
	return nonBlank, nil
}

func (s *topicService) proposeTopics(ctx context.Context, docs []prompt.SourceDocument) ([]response.TopicProposal, error) {
	p := s.builder.BuildProposal(prompt.ProposalInput{
		Documents:    docs,
		MaxTopics:    s.settings.MaxProposedTopics,
		MaxDocChars:  s.settings.SourceMaxChars,
		Style:        s.settings.Style,
		WithContents: s.settings.ProposalWithContent,
	})

	raw, err := s.provider.Chat(ctx, p.Messages(), llm.WithTier(llm.TierEfficient))
	if err != nil {
		return nil, fmt.Errorf("propose topics: %w", err)
	}

	proposals, err := response.DecodeProposals(raw)
	if err != nil {
		return nil, fmt.Errorf("propose topics: %w", err)
	}
	if limit := s.settings.MaxProposedTopics; limit > 0 && len(proposals) > limit {
		proposals = proposals[:limit]
	}
	return proposals, nil
}

// resolveTopic reuses the owner's topic with the same slug or inserts a new one.
// A concurrent insert of the same slug is treated as reuse.
func (s *topicService) resolveTopic(ctx context.Context, ownerId uuid.UUID, seed topicSeed) (*entity.Topic, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.TopicRepository()

	existing, err := s.findBySlug(ctx, repo, ownerId, seed.Slug)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	topic := &entity.Topic{
		Id:        uuid.New(),
		OwnerId:   ownerId,
		Title:     seed.Title,
		Slug:      seed.Slug,
		Category:  seed.Category,
		Icon:      seed.Icon,
		Color:     seed.Color,
		SortOrder: seed.SortOrder,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, topic); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			existing, findErr := s.findBySlug(ctx, repo, ownerId, seed.Slug)
			if findErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, apperror.Persistence("insert topic", err)
	}

	publish(ctx, s.publisher, s.logger, events.NewTopicCreated(topic.Id, ownerId, topic.Slug))
	return topic, true, nil
}

func (s *topicService) findBySlug(ctx context.Context, repo contract.TopicRepository, ownerId uuid.UUID, topicSlug string) (*entity.Topic, error) {
	topic, err := repo.FindOne(ctx, specification.OwnedBy{OwnerID: ownerId}, specification.BySlug{Slug: topicSlug})
	if err != nil {
		return nil, apperror.Persistence("find topic by slug", err)
	}
	return topic, nil
}

func (s *topicService) RegenerateContent(ctx context.Context, ownerId uuid.UUID, topicId uuid.UUID, req *dto.RegenerateContentRequest) (*dto.TopicDetailResponse, error) {
	topic, err := s.findOwnedTopic(ctx, ownerId, topicId)
	if err != nil {
		return nil, err
	}

	// the title override only steers the prompt; the stored title and slug stay
	subject := *topic
	if title := strings.TrimSpace(req.Title); title != "" {
		subject.Title = title
	}

	version, err := s.contentService.Generate(ctx, &subject, req.SourceNotes)
	if err != nil {
		return nil, err
	}
	return s.detail(topic, version), nil
}

func (s *topicService) CreateTopic(ctx context.Context, ownerId uuid.UUID, req *dto.CreateTopicRequest) (*dto.TopicDetailResponse, error) {
	title := strings.TrimSpace(req.Title)
	topicSlug := slug.Make(title)
	if topicSlug == "" {
		return nil, &apperror.ValidationError{Message: "title must contain letters or digits"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.TopicRepository()

	existing, err := s.findBySlug(ctx, repo, ownerId, topicSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &apperror.ConflictError{Message: fmt.Sprintf("topic %q already exists", topicSlug)}
	}

	count, err := repo.Count(ctx, specification.OwnedBy{OwnerID: ownerId})
	if err != nil {
		return nil, apperror.Persistence("count topics", err)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = constant.DefaultCategory
	}
	style := constant.StyleFor(category)

	topic := &entity.Topic{
		Id:        uuid.New(),
		OwnerId:   ownerId,
		Title:     title,
		Slug:      topicSlug,
		Category:  category,
		Icon:      style.Icon,
		Color:     style.Color,
		SortOrder: int(count),
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, topic); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, &apperror.ConflictError{Message: fmt.Sprintf("topic %q already exists", topicSlug)}
		}
		return nil, apperror.Persistence("insert topic", err)
	}
	s.invalidateList(ctx, ownerId)
	publish(ctx, s.publisher, s.logger, events.NewTopicCreated(topic.Id, ownerId, topic.Slug))

	version, err := s.contentService.Generate(ctx, topic, req.SourceNotes)
	if err != nil {
		return nil, err
	}
	return s.detail(topic, version), nil
}

func (s *topicService) ListTopics(ctx context.Context, ownerId uuid.UUID) ([]dto.TopicResponse, error) {
	key := cache.TopicListKey(ownerId)
	var cached []dto.TopicResponse
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	topics, err := uow.TopicRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: ownerId},
		specification.TopicOrder{},
	)
	if err != nil {
		return nil, apperror.Persistence("list topics", err)
	}

	pointers, err := uow.CurrentVersionRepository().FindAll(ctx, specification.OwnedBy{OwnerID: ownerId})
	if err != nil {
		return nil, apperror.Persistence("list current versions", err)
	}
	byTopic := make(map[uuid.UUID]*entity.CurrentVersion, len(pointers))
	for _, p := range pointers {
		byTopic[p.TopicId] = p
	}

	result := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		result = append(result, dto.NewTopicResponse(t, byTopic[t.Id]))
	}

	s.writeCache(ctx, key, result)
	return result, nil
}

func (s *topicService) GetTopic(ctx context.Context, ownerId uuid.UUID, topicId uuid.UUID) (*dto.TopicDetailResponse, error) {
	key := cache.TopicDetailKey(ownerId, topicId)
	var cached dto.TopicDetailResponse
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	topic, err := s.findOwnedTopic(ctx, ownerId, topicId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	current, err := uow.CurrentVersionRepository().FindByTopicID(ctx, topic.Id)
	if err != nil {
		return nil, apperror.Persistence("find current version", err)
	}

	res := &dto.TopicDetailResponse{Topic: dto.NewTopicResponse(topic, current)}
	if current != nil {
		version, err := uow.ContentVersionRepository().FindOne(ctx, specification.ByID{ID: current.VersionId})
		if err != nil {
			return nil, apperror.Persistence("find content version", err)
		}
		if version != nil {
			res.Content = dto.NewContentVersionResponse(version, true)
		}
	}

	// a writer that committed while we were reading has already dropped the key;
	// caching our older detail would undo that until the TTL runs out
	latest, err := uow.CurrentVersionRepository().FindByTopicID(ctx, topic.Id)
	if err == nil && samePointer(current, latest) {
		s.writeCache(ctx, key, res)
	}
	return res, nil
}

func samePointer(a, b *entity.CurrentVersion) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.VersionId == b.VersionId && a.UpdatedAt.Equal(b.UpdatedAt)
}

func (s *topicService) ListVersions(ctx context.Context, ownerId uuid.UUID, topicId uuid.UUID) ([]*dto.ContentVersionResponse, error) {
	topic, err := s.findOwnedTopic(ctx, ownerId, topicId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	versions, err := uow.ContentVersionRepository().FindAll(ctx,
		specification.ByTopicID{TopicID: topic.Id},
		specification.NewestFirst{},
	)
	if err != nil {
		return nil, apperror.Persistence("list content versions", err)
	}
	current, err := uow.CurrentVersionRepository().FindByTopicID(ctx, topic.Id)
	if err != nil {
		return nil, apperror.Persistence("find current version", err)
	}

	result := make([]*dto.ContentVersionResponse, 0, len(versions))
	for _, v := range versions {
		result = append(result, dto.NewContentVersionResponse(v, current != nil && current.VersionId == v.Id))
	}
	return result, nil
}

func (s *topicService) SetCurrentVersion(ctx context.Context, ownerId uuid.UUID, topicId uuid.UUID, req *dto.SetCurrentVersionRequest) (*dto.TopicDetailResponse, error) {
	topic, err := s.findOwnedTopic(ctx, ownerId, topicId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	version, err := uow.ContentVersionRepository().FindOne(ctx,
		specification.ByID{ID: req.VersionId},
		specification.ByTopicID{TopicID: topic.Id},
	)
	if err != nil {
		return nil, apperror.Persistence("find content version", err)
	}
	if version == nil {
		return nil, &apperror.NotFoundError{Resource: "content version"}
	}

	pointer := &entity.CurrentVersion{
		TopicId:   topic.Id,
		VersionId: version.Id,
		OwnerId:   ownerId,
		UpdatedAt: time.Now().UTC(),
	}
	if err := uow.CurrentVersionRepository().Upsert(ctx, pointer); err != nil {
		return nil, apperror.Persistence("upsert current version", err)
	}

	s.cache.Delete(ctx, cache.TopicDetailKey(ownerId, topic.Id), cache.TopicListKey(ownerId))
	return s.detail(topic, version), nil
}

func (s *topicService) findOwnedTopic(ctx context.Context, ownerId uuid.UUID, topicId uuid.UUID) (*entity.Topic, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	topic, err := uow.TopicRepository().FindOne(ctx,
		specification.ByID{ID: topicId},
		specification.OwnedBy{OwnerID: ownerId},
	)
	if err != nil {
		return nil, apperror.Persistence("find topic", err)
	}
	if topic == nil {
		return nil, &apperror.NotFoundError{Resource: "topic"}
	}
	return topic, nil
}

func (s *topicService) detail(topic *entity.Topic, version *entity.ContentVersion) *dto.TopicDetailResponse {
	current := &entity.CurrentVersion{TopicId: topic.Id, VersionId: version.Id, OwnerId: topic.OwnerId, UpdatedAt: version.CreatedAt}
	return &dto.TopicDetailResponse{
		Topic:   dto.NewTopicResponse(topic, current),
		Content: dto.NewContentVersionResponse(version, true),
	}
}

func (s *topicService) invalidateList(ctx context.Context, ownerId uuid.UUID) {
	s.cache.Delete(ctx, cache.TopicListKey(ownerId))
}

func (s *topicService) readCache(ctx context.Context, key string, v interface{}) bool {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.cache.Delete(ctx, key)
		return false
	}
	return true
}

func (s *topicService) writeCache(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw, s.settings.CacheTTL)
}

func newBatchSummary() *dto.BatchSummaryResponse {
	return &dto.BatchSummaryResponse{
		Topics:   []dto.TopicResponse{},
		Results:  []dto.TopicResult{},
		Failures: []dto.TopicFailure{},
	}
}

func recordResult(summary *dto.BatchSummaryResponse, topic *entity.Topic, current *entity.CurrentVersion, created, generated bool, err error) {
	res := dto.NewTopicResponse(topic, current)
	summary.Topics = append(summary.Topics, res)

	result := dto.TopicResult{
		Title:            topic.Title,
		Slug:             topic.Slug,
		Topic:            &res,
		Created:          created,
		ContentGenerated: generated,
	}
	if err != nil {
		result.Error = err.Error()
	}
	summary.Results = append(summary.Results, result)
	if created {
		summary.TopicsCreated++
	}
}

func recordFailure(summary *dto.BatchSummaryResponse, seed topicSeed, stage string, err error) {
	summary.Results = append(summary.Results, dto.TopicResult{
		Title: seed.Title,
		Slug:  seed.Slug,
		Error: err.Error(),
	})
	summary.Failures = append(summary.Failures, dto.TopicFailure{Slug: seed.Slug, Stage: stage, Error: err.Error()})
}
