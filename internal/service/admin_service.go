package service

import (
	"context"

	"github.com/lexweave/asklaw/internal/cache"
	"github.com/lexweave/asklaw/internal/domain"
	"github.com/lexweave/asklaw/internal/repository"
)

// AdminService handles admin operations: matters, documents, stats.
type AdminService struct {
	matterRepo   *repository.MatterRepository
	documentRepo *repository.DocumentRepository
	sessionRepo  *repository.SessionRepository
	cache        *cache.ResponseCache
	analytics    *AnalyticsService
}

// NewAdminService creates a new admin service
func NewAdminService(
	matterRepo *repository.MatterRepository,
	documentRepo *repository.DocumentRepository,
	sessionRepo *repository.SessionRepository,
	responseCache *cache.ResponseCache,
	analytics *AnalyticsService,
) *AdminService {
	return &AdminService{
		matterRepo:   matterRepo,
		documentRepo: documentRepo,
		sessionRepo:  sessionRepo,
		cache:        responseCache,
		analytics:    analytics,
	}
}

// Matter operations

func (s *AdminService) CreateMatter(ctx context.Context, req *domain.CreateMatterRequest) (*domain.Matter, error) {
	matter := &domain.Matter{
		Name:        req.Name,
		Client:      req.Client,
		DocumentIDs: req.DocumentIDs,
	}
	if matter.DocumentIDs == nil {
		matter.DocumentIDs = []string{}
	}
	if err := s.matterRepo.Create(matter); err != nil {
		return nil, err
	}
	return matter, nil
}

func (s *AdminService) GetMatter(ctx context.Context, id string) (*domain.Matter, error) {
	return s.matterRepo.Get(id)
}

func (s *AdminService) ListMatters(ctx context.Context) ([]*domain.Matter, error) {
	return s.matterRepo.List()
}

func (s *AdminService) UpdateMatter(ctx context.Context, id string, req *domain.UpdateMatterRequest) (*domain.Matter, error) {
	matter, err := s.matterRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if matter == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != "" {
		matter.Name = req.Name
	}
	if req.Client != "" {
		matter.Client = req.Client
	}
	if req.DocumentIDs != nil {
		matter.DocumentIDs = req.DocumentIDs
	}

	if err := s.matterRepo.Update(matter); err != nil {
		return nil, err
	}
	return matter, nil
}

func (s *AdminService) DeleteMatter(ctx context.Context, id string) error {
	return s.matterRepo.Delete(id)
}

// Document operations

func (s *AdminService) CreateDocument(ctx context.Context, req *domain.CreateDocumentRequest) (*domain.Document, error) {
	doc := &domain.Document{
		Title:    req.Title,
		DocType:  req.DocType,
		Citation: req.Citation,
		Tags:     req.Tags,
		Metadata: req.Metadata,
	}
	if err := s.documentRepo.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *AdminService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return s.documentRepo.Get(id)
}

func (s *AdminService) ListDocuments(ctx context.Context) ([]*domain.Document, error) {
	return s.documentRepo.List()
}

func (s *AdminService) UpdateDocument(ctx context.Context, id string, req *domain.UpdateDocumentRequest) (*domain.Document, error) {
	doc, err := s.documentRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}

	if req.Title != "" {
		doc.Title = req.Title
	}
	if req.DocType != "" {
		doc.DocType = req.DocType
	}
	if req.Citation != "" {
		doc.Citation = req.Citation
	}
	if req.Tags != nil {
		doc.Tags = req.Tags
	}
	if req.Metadata != nil {
		doc.Metadata = req.Metadata
	}

	if err := s.documentRepo.Update(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *AdminService) DeleteDocument(ctx context.Context, id string) error {
	return s.documentRepo.Delete(id)
}

// Stats and analytics

func (s *AdminService) GetStats(ctx context.Context) (*domain.Stats, error) {
	matters, err := s.matterRepo.Count()
	if err != nil {
		return nil, err
	}
	documents, err := s.documentRepo.Count()
	if err != nil {
		return nil, err
	}
	chats, err := s.sessionRepo.CountChats()
	if err != nil {
		return nil, err
	}

	hits, misses := s.cache.Stats()
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}

	return &domain.Stats{
		TotalMatters:   matters,
		TotalDocuments: documents,
		TotalChats:     chats,
		TotalCostUSD:   s.analytics.TotalCost(),
		CacheHits:      hits,
		CacheMisses:    misses,
		CacheHitRate:   hitRate,
	}, nil
}

func (s *AdminService) RecentAnalytics(ctx context.Context, limit int) []*domain.QueryEvent {
	return s.analytics.Recent(limit)
}
