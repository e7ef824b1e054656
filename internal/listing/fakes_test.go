package listing

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

// memStore evaluates PropertyFilter in memory with the same semantics as
// store.PropertyFilterDoc.
type memStore struct {
	mu         sync.Mutex
	items      map[primitive.ObjectID]models.Property
	forcedDups int
}

func newMemStore() *memStore {
	return &memStore{items: map[primitive.ObjectID]models.Property{}}
}

func matches(f models.PropertyFilter, p models.Property) bool {
	if f.ID != nil && p.ID != *f.ID {
		return false
	}
	if f.IDs != nil {
		found := false
		for _, id := range f.IDs {
			if id == p.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	switch {
	case f.ExcludeID != nil && p.ID == *f.ExcludeID,
		f.Slug != "" && p.Slug != f.Slug,
		f.Agent != nil && p.Agent != *f.Agent,
		f.Approved != nil && p.IsApproved != *f.Approved,
		f.Active != nil && p.IsActive != *f.Active,
		f.ListingType != "" && p.ListingType != f.ListingType,
		f.MinPrice != nil && p.Price < *f.MinPrice,
		f.MaxPrice != nil && p.Price > *f.MaxPrice,
		f.MinBedrooms != nil && p.Bedrooms < *f.MinBedrooms,
		f.MaxBedrooms != nil && p.Bedrooms > *f.MaxBedrooms,
		f.Bathrooms != nil && p.Bathrooms != *f.Bathrooms,
		(f.City != "" || f.CityExact) && p.Location.City != f.City,
		f.Type != "" && p.Type != f.Type,
		f.Furnished != nil && p.Furnished != *f.Furnished,
		f.Status != "" && p.Status != f.Status:
		return false
	}
	if f.Search != "" {
		text := strings.ToLower(p.Title + " " + p.Description)
		if !strings.Contains(text, strings.ToLower(f.Search)) {
			return false
		}
	}
	return true
}

func less(s models.PropertySort, a, b models.Property) bool {
	idCmp := bytes.Compare(a.ID[:], b.ID[:])
	switch s {
	case models.SortOldest:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return idCmp < 0
	case models.SortLowPrice:
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return idCmp < 0
	case models.SortHighPrice:
		if a.Price != b.Price {
			return a.Price > b.Price
		}
		return idCmp > 0
	default:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return idCmp > 0
	}
}

func (m *memStore) Find(_ context.Context, f models.PropertyFilter, s models.PropertySort, skip, limit int64) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Property{}
	for _, p := range m.items {
		if matches(f, p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(s, out[i], out[j]) })
	if skip >= int64(len(out)) {
		return []models.Property{}, nil
	}
	out = out[skip:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Count(ctx context.Context, f models.PropertyFilter) (int64, error) {
	all, _ := m.Find(ctx, f, models.SortNewest, 0, 0)
	return int64(len(all)), nil
}

func (m *memStore) FindOne(ctx context.Context, f models.PropertyFilter) (*models.Property, error) {
	all, _ := m.Find(ctx, f, models.SortNewest, 0, 1)
	if len(all) == 0 {
		return nil, store.ErrNotFound
	}
	return &all[0], nil
}

func (m *memStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	return m.FindOne(ctx, models.PropertyFilter{ID: &id})
}

func (m *memStore) Insert(_ context.Context, p *models.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.forcedDups > 0 {
		m.forcedDups--
		return errors.Join(store.ErrDuplicate, errors.New("E11000 slug"))
	}
	for _, existing := range m.items {
		if existing.Slug == p.Slug {
			return store.ErrDuplicate
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.items[p.ID] = *p
	return nil
}

func (m *memStore) Replace(_ context.Context, p *models.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[p.ID]; !ok {
		return store.ErrNotFound
	}
	m.items[p.ID] = *p
	return nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) ToggleFlag(_ context.Context, id primitive.ObjectID, field string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.items[id]
	if !ok {
		return false, store.ErrNotFound
	}
	var v bool
	if field == "isFeatured" {
		p.IsFeatured = !p.IsFeatured
		v = p.IsFeatured
	} else {
		p.IsTopPick = !p.IsTopPick
		v = p.IsTopPick
	}
	m.items[id] = p
	return v, nil
}

func (m *memStore) SetApproved(_ context.Context, id primitive.ObjectID, approved bool) (*models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.IsApproved = approved
	m.items[id] = p
	return &p, nil
}

func (m *memStore) get(id primitive.ObjectID) (models.Property, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	return p, ok
}

type memUsers map[primitive.ObjectID]models.User

func (u memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (u memUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	out := []models.User{}
	for _, id := range ids {
		if user, ok := u[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

type auditEntry struct {
	admin  primitive.ObjectID
	action string
	target primitive.ObjectID
	meta   map[string]any
}

type memAudit struct {
	entries []auditEntry
}

func (a *memAudit) Record(_ context.Context, admin primitive.ObjectID, action, _ string, target primitive.ObjectID, meta map[string]any) {
	a.entries = append(a.entries, auditEntry{admin: admin, action: action, target: target, meta: meta})
}

type memUploader struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (u *memUploader) Upload(_ context.Context, data []byte, _ string) (models.Image, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.fail {
		return models.Image{}, errors.New("upload failed")
	}
	return models.Image{URL: "https://cdn.example.com/properties/" + string(data) + ".jpg", PublicID: string(data)}, nil
}

type fixture struct {
	svc      *Service
	props    *memStore
	users    memUsers
	audit    *memAudit
	uploader *memUploader
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		props:    newMemStore(),
		users:    memUsers{},
		audit:    &memAudit{},
		uploader: &memUploader{},
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.props, f.users, f.uploader, f.audit, zap.NewNop())
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	return f
}

func (f *fixture) user(role string) *access.Caller {
	u := models.User{ID: primitive.NewObjectID(), Name: role + " name", Email: role + "@example.com", Role: role}
	f.users[u.ID] = u
	return &access.Caller{ID: u.ID, Role: role}
}

// seed inserts a listing directly, bypassing validation.
func (f *fixture) seed(mut func(p *models.Property)) models.Property {
	f.clock = f.clock.Add(time.Minute)
	p := models.Property{
		ID:          primitive.NewObjectID(),
		Title:       "Listing",
		Slug:        primitive.NewObjectID().Hex(),
		Description: "desc",
		ListingType: models.ListingSale,
		Price:       1000,
		Location:    models.Location{Type: "Point", Address: "1 Road", City: "dubai"},
		Bedrooms:    2,
		Area:        100,
		Type:        "villa",
		Status:      models.StatusAvailable,
		IsApproved:  true,
		IsActive:    true,
		Images:      []models.Image{{URL: "https://cdn/a.jpg", PublicID: "a"}},
		CreatedAt:   f.clock,
		UpdatedAt:   f.clock,
	}
	if mut != nil {
		mut(&p)
	}
	f.props.items[p.ID] = p
	return p
}
