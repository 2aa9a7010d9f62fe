// ABOUTME: Duty service resolves normalized city/district lookups against cached directory data
// ABOUTME: Provides cache-aside business logic independent of any HTTP layer

package duty

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pharmacy-duty-api/core/domain"
	coreerrors "pharmacy-duty-api/core/errors"
	"pharmacy-duty-api/core/index"
	"pharmacy-duty-api/core/interfaces"
	"pharmacy-duty-api/core/normalize"
	"pharmacy-duty-api/core/rotation"
)

// DefaultExcludedRegionPrefix filters out the one region the site does not
// serve. Cities whose name starts with this prefix never reach indices,
// counts, or resolver results.
const DefaultExcludedRegionPrefix = "KKTC"

// Resolution is the result of resolving a city (and optionally a district)
// to its canonical spelling and current duty pharmacies.
type Resolution struct {
	// City is the canonical display name from the directory
	City string

	// District is the canonical district name, empty when not requested
	District string

	// Pharmacies are the duty pharmacies for the resolved place.
	// The slice is shared with the cache; callers must not mutate it.
	Pharmacies []domain.Pharmacy
}

// Service handles duty pharmacy resolution and caching
type Service struct {
	deps           interfaces.Dependencies
	directory      interfaces.DirectoryAPI
	ttl            *rotation.Policy
	excludedPrefix string
}

// NewService creates a new duty service instance
func NewService(deps interfaces.Dependencies, directory interfaces.DirectoryAPI, ttl *rotation.Policy) *Service {
	if ttl == nil {
		ttl = rotation.NewPolicy(rotation.DefaultBoundaryHour, nil)
	}
	return &Service{
		deps:           deps,
		directory:      directory,
		ttl:            ttl,
		excludedPrefix: DefaultExcludedRegionPrefix,
	}
}

// SetExcludedRegionPrefix overrides the region prefix filtered from city
// lists. An empty prefix disables the filter.
func (s *Service) SetExcludedRegionPrefix(prefix string) {
	s.excludedPrefix = prefix
}

// Cities returns the canonical city list, with the excluded region already
// filtered out. Served from cache when fresh.
func (s *Service) Cities(ctx context.Context) ([]domain.City, error) {
	var cities []domain.City
	if s.readCached(ctx, cacheKeyCities, &cities) {
		return cities, nil
	}

	fetched, err := s.directory.FetchCities(ctx)
	if err != nil {
		return nil, err
	}

	cities = make([]domain.City, 0, len(fetched))
	for _, city := range fetched {
		if s.isExcluded(city.Name) {
			continue
		}
		cities = append(cities, city)
	}

	s.writeCached(ctx, cacheKeyCities, cities, s.ttl.Weekly())
	return cities, nil
}

// Districts returns the canonical districts of the given city input, which
// may arrive mis-cased or with alternate diacritics.
func (s *Service) Districts(ctx context.Context, cityInput string) ([]domain.District, error) {
	city, err := s.canonicalCity(ctx, cityInput)
	if err != nil {
		return nil, err
	}

	key := cacheKeyDistricts(citySlug(city))
	var districts []domain.District
	if s.readCached(ctx, key, &districts) {
		return districts, nil
	}

	districts, err = s.directory.FetchDistricts(ctx, citySlug(city))
	if err != nil {
		return nil, err
	}

	s.writeCached(ctx, key, districts, s.ttl.Weekly())
	return districts, nil
}

// Resolve normalizes the requested city (and optional district), matches it
// against the canonical place list, and returns the duty pharmacies for it,
// from cache when fresh and from the directory on a miss.
func (s *Service) Resolve(ctx context.Context, cityInput, districtInput string) (*Resolution, error) {
	city, err := s.canonicalCity(ctx, cityInput)
	if err != nil {
		return nil, err
	}

	res := &Resolution{City: city.Name}

	var districtSlug string
	if districtInput != "" {
		district, err := s.canonicalDistrict(ctx, cityInput, districtInput)
		if err != nil {
			return nil, err
		}
		res.District = district.Name
		districtSlug = slugOf(district.Slug, district.Name)
	}

	key := cacheKeyPharmacies(citySlug(city), districtSlug)
	var pharmacies []domain.Pharmacy
	if s.readCached(ctx, key, &pharmacies) {
		res.Pharmacies = pharmacies
		return res, nil
	}

	pharmacies, err = s.directory.FetchPharmaciesByCity(ctx, citySlug(city), districtSlug)
	if err != nil {
		return nil, err
	}

	s.writeCached(ctx, key, pharmacies, s.ttl.Daily())
	res.Pharmacies = pharmacies
	return res, nil
}

// AllPharmacies returns the nationwide duty list. This aggregate moves
// slowly, so it lives under the weekly TTL.
func (s *Service) AllPharmacies(ctx context.Context) ([]domain.Pharmacy, error) {
	var pharmacies []domain.Pharmacy
	if s.readCached(ctx, cacheKeyAllPharmacies, &pharmacies) {
		return pharmacies, nil
	}

	fetched, err := s.directory.FetchAllPharmacies(ctx)
	if err != nil {
		return nil, err
	}

	pharmacies = make([]domain.Pharmacy, 0, len(fetched))
	for _, pharmacy := range fetched {
		if s.isExcluded(pharmacy.City) {
			continue
		}
		pharmacies = append(pharmacies, pharmacy)
	}

	s.writeCached(ctx, cacheKeyAllPharmacies, pharmacies, s.ttl.Weekly())
	return pharmacies, nil
}

// PharmacyByID resolves a single pharmacy, preferring the cached nationwide
// index and falling back to a direct directory fetch.
func (s *Service) PharmacyByID(ctx context.Context, id string) (*domain.Pharmacy, error) {
	pharmacies, err := s.AllPharmacies(ctx)
	if err == nil {
		if pharmacy, ok := index.ByID(pharmacies)[id]; ok {
			return &pharmacy, nil
		}
	}

	return s.directory.FetchPharmacyByID(ctx, id)
}

// CityCounts returns pharmacies-per-city keyed by normalized city key,
// including zero entries for cities with no duty pharmacy right now. A
// cached count map is reused only while its key set still matches the
// canonical city list; a mismatch means the rotation moved underneath it.
func (s *Service) CityCounts(ctx context.Context) (map[string]int, error) {
	cities, err := s.Cities(ctx)
	if err != nil {
		return nil, err
	}

	var counts map[string]int
	if s.readCached(ctx, cacheKeyCityCounts, &counts) && countsMatchCities(counts, cities) {
		return counts, nil
	}

	pharmacies, err := s.AllPharmacies(ctx)
	if err != nil {
		return nil, err
	}

	grouped := index.CountByCity(index.ByCity(pharmacies))
	counts = make(map[string]int, len(cities))
	for _, city := range cities {
		counts[normalize.Key(city.Name)] = grouped[normalize.Key(city.Name)]
	}

	s.writeCached(ctx, cacheKeyCityCounts, counts, s.ttl.Daily())
	return counts, nil
}

// DistrictCounts returns pharmacies-per-district for one city, keyed by
// normalized district key, with the same key-set staleness rule as
// CityCounts.
func (s *Service) DistrictCounts(ctx context.Context, cityInput string) (map[string]int, error) {
	districts, err := s.Districts(ctx, cityInput)
	if err != nil {
		return nil, err
	}

	city, err := s.canonicalCity(ctx, cityInput)
	if err != nil {
		return nil, err
	}

	key := cacheKeyDistrictCounts(citySlug(city))
	var counts map[string]int
	if s.readCached(ctx, key, &counts) && countsMatchDistricts(counts, districts) {
		return counts, nil
	}

	resolution, err := s.Resolve(ctx, cityInput, "")
	if err != nil {
		return nil, err
	}

	grouped := index.ByCityAndDistrict(resolution.Pharmacies)
	byDistrict := index.CountByDistrict(grouped[normalize.Key(city.Name)])
	counts = make(map[string]int, len(districts))
	for _, district := range districts {
		counts[normalize.Key(district.Name)] = byDistrict[normalize.Key(district.Name)]
	}

	s.writeCached(ctx, key, counts, s.ttl.Daily())
	return counts, nil
}

// InvalidateAll deletes every top-level cache key so the next resolution
// refetches from the directory. Per-city pharmacy entries expire on their
// own at the rotation boundary.
func (s *Service) InvalidateAll(ctx context.Context) {
	if s.deps.Cache == nil {
		return
	}
	for _, key := range []string{cacheKeyCities, cacheKeyAllPharmacies, cacheKeyCityCounts} {
		if err := s.deps.Cache.Delete(ctx, key); err != nil {
			s.logWarn("Failed to delete cache key", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
}

// canonicalCity finds the directory city whose normalized name equals the
// normalized input.
func (s *Service) canonicalCity(ctx context.Context, cityInput string) (domain.City, error) {
	if strings.TrimSpace(cityInput) == "" {
		return domain.City{}, &coreerrors.NotFoundError{Kind: "city", Value: cityInput}
	}

	cities, err := s.Cities(ctx)
	if err != nil {
		return domain.City{}, err
	}

	for _, city := range cities {
		if normalize.Equal(city.Name, cityInput) {
			return city, nil
		}
	}

	return domain.City{}, &coreerrors.NotFoundError{Kind: "city", Value: cityInput}
}

// canonicalDistrict matches the district input against the canonical
// districts of the already-resolved city.
func (s *Service) canonicalDistrict(ctx context.Context, cityInput, districtInput string) (domain.District, error) {
	districts, err := s.Districts(ctx, cityInput)
	if err != nil {
		return domain.District{}, err
	}

	for _, district := range districts {
		if normalize.Equal(district.Name, districtInput) {
			return district, nil
		}
	}

	return domain.District{}, &coreerrors.NotFoundError{Kind: "district", Value: districtInput}
}

// readCached loads and decodes a cache entry into dest. Any cache error,
// including a plain miss, degrades to a miss: staleness beats total failure.
func (s *Service) readCached(ctx context.Context, key string, dest interface{}) bool {
	if s.deps.Cache == nil {
		return false
	}

	data, err := s.deps.Cache.Get(ctx, key)
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.logWarn("Failed to decode cached value", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}

	return true
}

// writeCached encodes and stores a value. Population is detached from the
// caller's cancellation so an abandoned request still warms the cache for
// other waiters. Write errors are logged and swallowed.
func (s *Service) writeCached(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.deps.Cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logWarn("Failed to encode value for cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	detached := context.WithoutCancel(ctx)
	if err := s.deps.Cache.Set(detached, key, data, ttl); err != nil {
		s.logWarn("Failed to write cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *Service) isExcluded(cityName string) bool {
	if s.excludedPrefix == "" {
		return false
	}
	return strings.HasPrefix(normalize.Key(cityName), normalize.Key(s.excludedPrefix))
}

func (s *Service) logWarn(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, fields)
	}
}

// citySlug prefers the directory's own slug and falls back to the
// normalized display name.
func citySlug(city domain.City) string {
	return slugOf(city.Slug, city.Name)
}

func slugOf(slug, name string) string {
	if slug != "" {
		return slug
	}
	return normalize.Key(name)
}

func countsMatchCities(counts map[string]int, cities []domain.City) bool {
	if len(counts) != len(cities) {
		return false
	}
	for _, city := range cities {
		if _, ok := counts[normalize.Key(city.Name)]; !ok {
			return false
		}
	}
	return true
}

func countsMatchDistricts(counts map[string]int, districts []domain.District) bool {
	if len(counts) != len(districts) {
		return false
	}
	for _, district := range districts {
		if _, ok := counts[normalize.Key(district.Name)]; !ok {
			return false
		}
	}
	return true
}

const (
	cacheKeyCities        = "cities"
	cacheKeyAllPharmacies = "pharmacies:all"
	cacheKeyCityCounts    = "counts:city"
)

func cacheKeyDistricts(citySlug string) string {
	return fmt.Sprintf("districts:%s", citySlug)
}

func cacheKeyPharmacies(citySlug, districtSlug string) string {
	if districtSlug == "" {
		return fmt.Sprintf("pharmacies:city:%s", citySlug)
	}
	return fmt.Sprintf("pharmacies:city:%s:district:%s", citySlug, districtSlug)
}

func cacheKeyDistrictCounts(citySlug string) string {
	return fmt.Sprintf("counts:district:%s", citySlug)
}
