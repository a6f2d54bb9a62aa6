package application

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int64]*entity.User
	nextID int64
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*entity.User{}}
}

func (f *fakeUsers) add(u entity.User) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = &u
	return &u
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

// fakeHasher is reversible so tests can assert on stored values cheaply.
type fakeHasher struct {
	verifyCalls int
}

func (h *fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (h *fakeHasher) Verify(plain, hash string) bool {
	h.verifyCalls++
	return hash == "hashed:"+plain
}

type fakeTokens struct {
	err error
}

func (t *fakeTokens) Issue(userID int64) (string, time.Time, error) {
	if t.err != nil {
		return "", time.Time{}, t.err
	}
	return "token-" + strconv.FormatInt(userID, 10), time.Now().Add(24 * time.Hour), nil
}

func (t *fakeTokens) Verify(token string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(token, "token-"), 10, 64)
	if err != nil || !strings.HasPrefix(token, "token-") {
		return 0, errors.New("invalid token")
	}
	return id, nil
}

// fakeCatalog backs products, categories and variants with the same
// conditional-write semantics as the SQL implementation.
type fakeCatalog struct {
	mu         sync.Mutex
	categories map[int64]string
	products   map[int64]*entity.Product
	variants   map[int64]*entity.Variant
	nextP      int64
	nextV      int64
	writes     int
	err        error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: map[int64]string{},
		products:   map[int64]*entity.Product{},
		variants:   map[int64]*entity.Variant{},
	}
}

type fakeProducts struct{ *fakeCatalog }
type fakeCategories struct{ *fakeCatalog }
type fakeVariants struct{ *fakeCatalog }

func (f fakeProducts) List(_ context.Context, flt repo.ProductFilter) ([]entity.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	if flt.Offset < 0 || flt.Limit < 0 {
		return nil, 0, errors.New("OFFSET must not be negative")
	}
	var all []entity.Product
	needle := strings.ToLower(flt.Search)
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if flt.Offset >= len(all) {
		return []entity.Product{}, total, nil
	}
	end := flt.Offset + flt.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[flt.Offset:end], total, nil
}

func (f fakeProducts) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakeProducts) Create(_ context.Context, in *entity.Product) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	name, ok := f.categories[in.CategoryID]
	if !ok {
		return nil, repo.ErrInvalidReference
	}
	f.writes++
	f.nextP++
	cp := *in
	cp.ID = f.nextP
	cp.CategoryName = name
	f.products[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f fakeProducts) UpdateIfExists(_ context.Context, id int64, patch repo.ProductPatch) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if patch.CategoryID != nil {
		if _, ok := f.categories[*patch.CategoryID]; !ok {
			return nil, repo.ErrInvalidReference
		}
		p.CategoryID = *patch.CategoryID
		p.CategoryName = f.categories[*patch.CategoryID]
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		p.ImageURL = patch.ImageURL
	}
	p.UpdatedBy = patch.UpdatedBy
	p.UpdatedAt = patch.UpdatedAt
	f.writes++
	cp := *p
	return &cp, nil
}

func (f fakeProducts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.products, id)
	f.writes++
	return nil
}

func (f fakeProducts) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.products)), f.err
}

func (f fakeCategories) List(context.Context) ([]entity.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Category{}
	for id, name := range f.categories {
		out = append(out, entity.Category{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeVariants) ListByProduct(_ context.Context, productID int64) ([]entity.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Variant{}
	for _, v := range f.variants {
		if v.ProductID == productID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeVariants) GetByID(_ context.Context, id int64) (*entity.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variants[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f fakeVariants) CreateForProduct(_ context.Context, in *entity.Variant) (*entity.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if _, ok := f.products[in.ProductID]; !ok {
		return nil, repo.ErrInvalidReference
	}
	for _, v := range f.variants {
		if v.SKU == in.SKU {
			return nil, repo.ErrDuplicate
		}
	}
	f.nextV++
	cp := *in
	cp.ID = f.nextV
	f.variants[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f fakeVariants) UpdateIfExists(_ context.Context, id int64, patch repo.VariantPatch) (*entity.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variants[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if patch.SKU != nil {
		for _, other := range f.variants {
			if other.ID != id && other.SKU == *patch.SKU {
				return nil, repo.ErrDuplicate
			}
		}
		v.SKU = *patch.SKU
	}
	if patch.Name != nil {
		v.Name = *patch.Name
	}
	if patch.Price != nil {
		v.Price = *patch.Price
	}
	if patch.Stock != nil {
		v.Stock = *patch.Stock
	}
	if patch.ImageURL != nil {
		v.ImageURL = patch.ImageURL
	}
	v.UpdatedBy = patch.UpdatedBy
	v.UpdatedAt = patch.UpdatedAt
	f.writes++
	cp := *v
	return &cp, nil
}

func (f fakeVariants) Delete(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variants[id]
	if !ok {
		return 0, repo.ErrNotFound
	}
	delete(f.variants, id)
	f.writes++
	return v.ProductID, nil
}

func (f fakeVariants) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.variants)), nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []entity.CatalogEvent
	err    error
}

func (r *recordingEvents) PublishEvent(_ context.Context, ev entity.CatalogEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeIndexer struct {
	indexed map[int64]string
	removed []int64
	hits    []entity.ProductSearchHit
	err     error
}

func (f *fakeIndexer) IndexProduct(_ context.Context, p *entity.Product) error {
	if f.indexed == nil {
		f.indexed = map[int64]string{}
	}
	f.indexed[p.ID] = p.Name
	return f.err
}

func (f *fakeIndexer) RemoveProduct(_ context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeIndexer) SearchProducts(_ context.Context, q string, size int) ([]entity.ProductSearchHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.hits) > size {
		return f.hits[:size], nil
	}
	return f.hits, nil
}
