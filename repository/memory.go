package repository

import (
	"bytes"
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]*models.User
	byEmail map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    map[primitive.ObjectID]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (m *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.Email = models.NormalizeEmail(u.Email)
	if _, exists := m.byEmail[u.Email]; exists {
		return apperrors.DuplicateEmail(u.Email)
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt

	stored := *u
	m.byID[u.ID] = &stored
	m.byEmail[u.Email] = &stored
	return nil
}

func (m *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.byEmail[models.NormalizeEmail(email)]; ok {
		found := *u
		return &found, nil
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.byID[id]; ok {
		found := *u
		return &found, nil
	}
	return nil, apperrors.NotFound("user not found")
}

// MemoryReportRepository keeps reports in process. Nearby is a linear scan
// ordered by haversine distance.
type MemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[primitive.ObjectID]models.Report
}

func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{reports: map[primitive.ObjectID]models.Report{}}
}

func (m *MemoryReportRepository) Create(_ context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	m.reports[r.ID] = *r
	return nil
}

func (m *MemoryReportRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, apperrors.NotFound("report not found")
	}
	return &r, nil
}

func (m *MemoryReportRepository) Find(_ context.Context, filter ReportFilter) ([]models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.match(filter)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) > 0
	})
	return out, nil
}

func (m *MemoryReportRepository) Nearby(_ context.Context, q NearbyQuery) ([]models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type ranked struct {
		report   models.Report
		distance float64
	}
	var candidates []ranked
	for _, r := range m.match(q.Filter) {
		d := DistanceMeters(q.Point, r.Location)
		if math.IsNaN(d) || (q.MaxDistance > 0 && d > q.MaxDistance) {
			continue
		}
		candidates = append(candidates, ranked{report: r, distance: d})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	out := []models.Report{}
	for _, c := range candidates {
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		out = append(out, c.report)
	}
	return out, nil
}

func (m *MemoryReportRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.ReportStatus) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, apperrors.NotFound("report not found")
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	m.reports[id] = r
	return &r, nil
}

func (m *MemoryReportRepository) CountBySubmitter(_ context.Context) ([]models.SubmitterCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := map[primitive.ObjectID]*models.SubmitterCount{}
	for _, r := range m.reports {
		g, ok := groups[r.SubmittedBy.ID]
		if !ok {
			g = &models.SubmitterCount{ID: r.SubmittedBy.ID, Name: r.SubmittedBy.Name}
			groups[r.SubmittedBy.ID] = g
		}
		g.Count++
	}

	counts := make([]models.SubmitterCount, 0, len(groups))
	for _, g := range groups {
		counts = append(counts, *g)
	}
	return counts, nil
}

// match must be called with the lock held.
func (m *MemoryReportRepository) match(f ReportFilter) []models.Report {
	out := []models.Report{}
	for _, r := range m.reports {
		if f.SubmittedBy != nil && r.SubmittedBy.ID != *f.SubmittedBy {
			continue
		}
		if f.Category != nil && r.Category != *f.Category {
			continue
		}
		out = append(out, r)
	}
	return out
}
