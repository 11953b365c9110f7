package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/one-blood/donation-service/internal/domain"
)

// In-memory repository implementations. They mirror the conditional-update
// semantics of the Postgres implementations (including pgx.ErrNoRows as the
// no-match sentinel) so services behave identically against either backend.
// Primarily exercised by tests.

// MemoryUserRepository is a mutex-guarded UserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // keyed by id
}

// NewMemoryUserRepository builds an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Name = user.Name
	existing.Avatar = user.Avatar
	existing.BloodGroup = user.BloodGroup
	existing.District = user.District
	existing.Upazila = user.Upazila
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) UpdateStatus(_ context.Context, id string, status domain.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryUserRepository) List(_ context.Context, status *domain.UserStatus) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.User
	for _, user := range r.users {
		if status != nil && user.Status != *status {
			continue
		}
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *MemoryUserRepository) SearchDonors(_ context.Context, search DonorSearch) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.User
	for _, user := range r.users {
		if user.Status != domain.UserStatusActive {
			continue
		}
		if user.BloodGroup != search.BloodGroup || user.District != search.District || user.Upazila != search.Upazila {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// MemoryDonationRequestRepository is a mutex-guarded DonationRequestRepository.
// The mutex makes every conditional update a compare-and-set, matching the
// atomicity the SQL implementation gets from single UPDATE statements.
type MemoryDonationRequestRepository struct {
	mu       sync.Mutex
	requests map[string]*domain.DonationRequest
	seq      int
}

// NewMemoryDonationRequestRepository builds an empty in-memory request store.
func NewMemoryDonationRequestRepository() *MemoryDonationRequestRepository {
	return &MemoryDonationRequestRepository{requests: make(map[string]*domain.DonationRequest)}
}

func (r *MemoryDonationRequestRepository) Create(_ context.Context, req *domain.DonationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.NewString()
	r.seq++
	// Spread creation times so recent-first ordering is deterministic.
	req.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Microsecond)
	req.UpdatedAt = req.CreatedAt
	clone := cloneRequest(req)
	r.requests[req.ID] = clone
	return nil
}

func (r *MemoryDonationRequestRepository) GetByID(_ context.Context, id string) (*domain.DonationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneRequest(req), nil
}

func (r *MemoryDonationRequestRepository) List(_ context.Context, filter DonationFilter) ([]domain.DonationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.DonationRequest
	for _, req := range r.requests {
		if filter.RequesterEmail != nil && !strings.EqualFold(req.RequesterEmail, *filter.RequesterEmail) {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		result = append(result, *cloneRequest(req))
	}
	sort.Slice(result, func(i, j int) bool {
		if filter.RecentFirst {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *MemoryDonationRequestRepository) Claim(_ context.Context, id string, donor domain.DonorInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != domain.DonationStatusPending {
		return pgx.ErrNoRows
	}
	req.Status = domain.DonationStatusInProgress
	req.Donor = &domain.DonorInfo{Name: donor.Name, Email: donor.Email}
	req.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryDonationRequestRepository) SetStatusFrom(_ context.Context, id string, to domain.DonationStatus, from []domain.DonationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return pgx.ErrNoRows
	}
	allowed := false
	for _, status := range from {
		if req.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return pgx.ErrNoRows
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryDonationRequestRepository) UpdateDetails(_ context.Context, in *domain.DonationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[in.ID]
	if !ok || req.Status != domain.DonationStatusPending {
		return pgx.ErrNoRows
	}
	req.RecipientName = in.RecipientName
	req.RecipientDistrict = in.RecipientDistrict
	req.RecipientUpazila = in.RecipientUpazila
	req.HospitalName = in.HospitalName
	req.FullAddress = in.FullAddress
	req.BloodGroup = in.BloodGroup
	req.DonationDate = in.DonationDate
	req.DonationTime = in.DonationTime
	req.RequestMessage = in.RequestMessage
	req.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryDonationRequestRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.requests, id)
	return nil
}

func (r *MemoryDonationRequestRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.requests)), nil
}

func cloneRequest(req *domain.DonationRequest) *domain.DonationRequest {
	clone := *req
	if req.Donor != nil {
		donor := *req.Donor
		clone.Donor = &donor
	}
	return &clone
}

// MemoryBlogRepository is a mutex-guarded BlogRepository.
type MemoryBlogRepository struct {
	mu    sync.RWMutex
	blogs map[string]*domain.Blog
}

// NewMemoryBlogRepository builds an empty in-memory blog store.
func NewMemoryBlogRepository() *MemoryBlogRepository {
	return &MemoryBlogRepository{blogs: make(map[string]*domain.Blog)}
}

func (r *MemoryBlogRepository) Create(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	blog.ID = uuid.NewString()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt
	clone := *blog
	r.blogs[blog.ID] = &clone
	return nil
}

func (r *MemoryBlogRepository) GetByID(_ context.Context, id string) (*domain.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	blog, ok := r.blogs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *blog
	return &clone, nil
}

func (r *MemoryBlogRepository) List(_ context.Context, status *domain.BlogStatus) ([]domain.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Blog
	for _, blog := range r.blogs {
		if status != nil && blog.Status != *status {
			continue
		}
		result = append(result, *blog)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *MemoryBlogRepository) UpdateStatus(_ context.Context, id string, status domain.BlogStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	blog, ok := r.blogs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	blog.Status = status
	blog.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryBlogRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.blogs, id)
	return nil
}
