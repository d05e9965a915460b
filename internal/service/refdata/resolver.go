package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	domain "github.com/nominaplus/payroll-engine/internal/domain/refdata"
)

const cacheTTL = time.Hour

// Resolver loads the company code catalog and constants once and answers
// every alias lookup from the snapshot. Concurrent jobs for the same company
// share a single load through singleflight; the snapshot is also cached in
// Redis so new worker instances start warm.
type Resolver struct {
	repo  domain.Repository
	cache *redis.Client

	group singleflight.Group

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

func NewResolver(repo domain.Repository, cache *redis.Client) *Resolver {
	return &Resolver{
		repo:      repo,
		cache:     cache,
		snapshots: make(map[string]*Snapshot),
	}
}

// Snapshot is the immutable per-company view of codes and constants.
type Snapshot struct {
	Codes     []domain.Code
	Constants []domain.Constant

	byID      map[string]domain.Code
	byCode    map[string]domain.Code
	constants map[string]decimal.Decimal
}

func newSnapshot(codes []domain.Code, constants []domain.Constant) *Snapshot {
	s := &Snapshot{
		Codes:     codes,
		Constants: constants,
		byID:      make(map[string]domain.Code, len(codes)),
		byCode:    make(map[string]domain.Code, len(codes)),
		constants: make(map[string]decimal.Decimal, len(constants)),
	}
	for _, c := range codes {
		s.byID[c.ID] = c
		s.byCode[c.Code] = c
	}
	for _, c := range constants {
		s.constants[c.Code] = c.Value
	}
	return s
}

func (r *Resolver) snapshot(ctx context.Context, companyID string) (*Snapshot, error) {
	r.mu.RLock()
	snap, ok := r.snapshots[companyID]
	r.mu.RUnlock()
	if ok {
		return snap, nil
	}

	v, err, _ := r.group.Do(companyID, func() (any, error) {
		return r.load(ctx, companyID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

type cachedSnapshot struct {
	Codes     []domain.Code     `json:"codes"`
	Constants []domain.Constant `json:"constants"`
}

func (r *Resolver) load(ctx context.Context, companyID string) (*Snapshot, error) {
	if snap := r.loadFromCache(ctx, companyID); snap != nil {
		r.store(companyID, snap)
		return snap, nil
	}

	codes, err := r.repo.ListCodes(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load codes: %w", err)
	}
	constants, err := r.repo.ListConstants(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load constants: %w", err)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("company %s: %w", companyID, domain.ErrCodeNotFound)
	}

	snap := newSnapshot(codes, constants)
	r.store(companyID, snap)
	r.storeInCache(ctx, companyID, snap)
	return snap, nil
}

func (r *Resolver) store(companyID string, snap *Snapshot) {
	r.mu.Lock()
	r.snapshots[companyID] = snap
	r.mu.Unlock()
}

func (r *Resolver) loadFromCache(ctx context.Context, companyID string) *Snapshot {
	if r.cache == nil {
		return nil
	}
	raw, err := r.cache.Get(ctx, cacheKey(companyID)).Bytes()
	if err != nil {
		return nil
	}
	var cached cachedSnapshot
	if err := json.Unmarshal(raw, &cached); err != nil {
		slog.Warn("Discarding corrupt codes cache entry", "company_id", companyID, "error", err)
		return nil
	}
	if len(cached.Codes) == 0 {
		return nil
	}
	return newSnapshot(cached.Codes, cached.Constants)
}

func (r *Resolver) storeInCache(ctx context.Context, companyID string, snap *Snapshot) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(cachedSnapshot{Codes: snap.Codes, Constants: snap.Constants})
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(companyID), raw, cacheTTL).Err(); err != nil {
		slog.Warn("Failed to cache codes snapshot", "company_id", companyID, "error", err)
	}
}

func cacheKey(companyID string) string {
	return "codes_config:" + companyID
}

// Invalidate drops the in-process and Redis snapshot for the company.
func (r *Resolver) Invalidate(ctx context.Context, companyID string) {
	r.mu.Lock()
	delete(r.snapshots, companyID)
	r.mu.Unlock()
	if r.cache != nil {
		r.cache.Del(ctx, cacheKey(companyID))
	}
}

// CodeByID translates a catalog id into the company's code value.
func (r *Resolver) CodeByID(ctx context.Context, companyID, id string) (string, error) {
	snap, err := r.snapshot(ctx, companyID)
	if err != nil {
		return "", err
	}
	c, ok := snap.byID[id]
	if !ok {
		return "", fmt.Errorf("catalog id %s: %w", id, domain.ErrCodeNotFound)
	}
	return c.Code, nil
}

// ConfigByCode returns the full catalog entry for a company code value.
func (r *Resolver) ConfigByCode(ctx context.Context, companyID, code string) (domain.Code, error) {
	snap, err := r.snapshot(ctx, companyID)
	if err != nil {
		return domain.Code{}, err
	}
	c, ok := snap.byCode[code]
	if !ok {
		return domain.Code{}, fmt.Errorf("code %s: %w", code, domain.ErrCodeNotFound)
	}
	return c, nil
}

// CodesByCategory lists the code values of every catalog entry in category.
func (r *Resolver) CodesByCategory(ctx context.Context, companyID, category string) ([]string, error) {
	snap, err := r.snapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}
	var codes []string
	for _, c := range snap.Codes {
		if c.Category == category {
			codes = append(codes, c.Code)
		}
	}
	return codes, nil
}

// ConstantByCode returns the constant value attached to a company code value.
func (r *Resolver) ConstantByCode(ctx context.Context, companyID, code string) (decimal.Decimal, error) {
	snap, err := r.snapshot(ctx, companyID)
	if err != nil {
		return decimal.Zero, err
	}
	v, ok := snap.constants[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("constant for code %s: %w", code, domain.ErrConstantNotFound)
	}
	return v, nil
}

// ConstantByID resolves a catalog id to its code and returns the constant
// value attached to it.
func (r *Resolver) ConstantByID(ctx context.Context, companyID, id string) (decimal.Decimal, error) {
	code, err := r.CodeByID(ctx, companyID, id)
	if err != nil {
		return decimal.Zero, err
	}
	return r.ConstantByCode(ctx, companyID, code)
}

// SolidarityBracket proxies the bracket lookup so calculators only depend on
// the resolver.
func (r *Resolver) SolidarityBracket(ctx context.Context, salaryInWages decimal.Decimal, isPensionary bool) (*domain.SolidarityBracket, error) {
	return r.repo.FindSolidarityBracket(ctx, salaryInWages, isPensionary)
}
