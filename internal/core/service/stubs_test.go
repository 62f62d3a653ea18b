package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/portfolio/blog-api/internal/core/domain"
	"github.com/portfolio/blog-api/internal/core/ports"
)

var nopLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubArticleRepo struct {
	mu         sync.Mutex
	byID       map[string]*domain.Article
	lastFilter ports.ArticleFilter
	updates    int
	deleted    []string
	listErr    error
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{byID: make(map[string]*domain.Article)}
}

func cloneArticle(a *domain.Article) *domain.Article {
	clone := *a
	clone.Tags = append([]string(nil), a.Tags...)
	return &clone
}

func (r *stubArticleRepo) Create(_ context.Context, a *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = cloneArticle(a)
	return nil
}

func (r *stubArticleRepo) FindByID(_ context.Context, id string) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	return cloneArticle(a), nil
}

// List applies the same filters the real repositories use.
func (r *stubArticleRepo) List(_ context.Context, f ports.ArticleFilter) ([]domain.Article, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f
	if r.listErr != nil {
		return nil, 0, r.listErr
	}

	var matched []domain.Article
	for _, a := range r.byID {
		if f.AuthorID != "" && a.AuthorID != f.AuthorID {
			continue
		}
		if f.OnlyPublished && !a.Published {
			continue
		}
		if f.Tag != "" && !contains(a.Tags, f.Tag) {
			continue
		}
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(a.Title+" "+a.Description+" "+a.Content), s) {
				continue
			}
		}
		matched = append(matched, *cloneArticle(a))
	}
	sort.Slice(matched, func(i, j int) bool {
		if f.SortOrder == domain.SortAsc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := f.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubArticleRepo) Latest(ctx context.Context, limit int) ([]domain.Article, error) {
	items, _, err := r.List(ctx, ports.ArticleFilter{OnlyPublished: true, SortOrder: domain.SortDesc, Limit: limit})
	return items, err
}

func (r *stubArticleRepo) Update(_ context.Context, a *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[a.ID]
	if !ok {
		return domain.ErrArticleNotFound
	}
	clone := cloneArticle(a)
	clone.Views = existing.Views
	clone.Likes = existing.Likes
	r.byID[a.ID] = clone
	r.updates++
	return nil
}

func (r *stubArticleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubArticleRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrArticleNotFound
	}
	a.Views++
	return nil
}

func (r *stubArticleRepo) IncrementLikes(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrArticleNotFound
	}
	a.Likes++
	return nil
}

func (r *stubArticleRepo) stored(id string) domain.Article {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *cloneArticle(r.byID[id])
}

type stubCommentRepo struct {
	byArticle map[string][]domain.Comment
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{byArticle: make(map[string][]domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	r.byArticle[c.ArticleID] = append([]domain.Comment{*c}, r.byArticle[c.ArticleID]...)
	return nil
}

func (r *stubCommentRepo) ListByArticle(_ context.Context, articleID string) ([]domain.Comment, error) {
	return r.byArticle[articleID], nil
}

type stubUserRepo struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	visitors map[string]*domain.Visitor
	// raceOnce makes the first CreateVisitor behave as if a concurrent
	// request stored the same email first.
	raceOnce bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:    make(map[string]*domain.User),
		visitors: make(map[string]*domain.Visitor),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindVisitorByEmail(_ context.Context, email string) (*domain.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[email]
	if !ok {
		return nil, domain.ErrVisitorNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubUserRepo) CreateVisitor(_ context.Context, v *domain.Visitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raceOnce {
		r.raceOnce = false
		winner := domain.NewVisitor(v.Email)
		r.visitors[v.Email] = winner
		return domain.ErrEmailTaken
	}
	if _, ok := r.visitors[v.Email]; ok {
		return domain.ErrEmailTaken
	}
	clone := *v
	r.visitors[v.Email] = &clone
	return nil
}

func (r *stubUserRepo) ListVisitors(_ context.Context) ([]domain.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Visitor
	for _, v := range r.visitors {
		out = append(out, *v)
	}
	return out, nil
}

type stubProjectRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Project
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) List(_ context.Context) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, p := range r.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProjectRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.Views++
	return nil
}

func (r *stubProjectRepo) IncrementLikes(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.Likes++
	return nil
}

type stubStatsRepo struct {
	stats    domain.SiteStats
	articles []domain.Article
	projects []domain.Project
	err      error
	limit    int
}

func (r *stubStatsRepo) SiteStats(context.Context) (*domain.SiteStats, error) {
	if r.err != nil {
		return nil, r.err
	}
	s := r.stats
	return &s, nil
}

func (r *stubStatsRepo) MostViewedArticles(_ context.Context, limit int) ([]domain.Article, error) {
	r.limit = limit
	return r.articles, nil
}

func (r *stubStatsRepo) MostViewedProjects(_ context.Context, limit int) ([]domain.Project, error) {
	return r.projects, nil
}

type stubTokenStore struct {
	revoked map[string]time.Duration
	err     error
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{revoked: make(map[string]time.Duration)}
}

func (s *stubTokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[jti] = ttl
	return nil
}

func (s *stubTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := s.revoked[jti]
	return ok, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// seedArticle stores an article directly, bypassing the service.
func seedArticle(r *stubArticleRepo, authorID string, published bool, createdAt time.Time, tags ...string) *domain.Article {
	a := domain.NewArticle("Title "+createdAt.Format(time.RFC3339Nano), "a description", strings.Repeat("content ", 10), authorID, published)
	a.CreatedAt = createdAt
	a.Tags = tags
	_ = r.Create(context.Background(), a)
	return a
}
