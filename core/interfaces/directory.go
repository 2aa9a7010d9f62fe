package interfaces

import (
	"context"

	"pharmacy-duty-api/core/domain"
)

// DirectoryAPI is the contract of the remote duty-pharmacy directory.
// Implementations translate transport failures and non-success payloads
// into a DataUnavailableError; callers never see raw transport errors.
type DirectoryAPI interface {
	// FetchAllPharmacies returns every pharmacy currently on duty nationwide.
	FetchAllPharmacies(ctx context.Context) ([]domain.Pharmacy, error)

	// FetchPharmaciesByCity returns duty pharmacies for a city slug, further
	// narrowed by district slug when districtSlug is non-empty.
	FetchPharmaciesByCity(ctx context.Context, citySlug, districtSlug string) ([]domain.Pharmacy, error)

	// FetchCities returns the canonical city list known to the directory.
	FetchCities(ctx context.Context) ([]domain.City, error)

	// FetchDistricts returns the canonical districts of a city slug.
	FetchDistricts(ctx context.Context, citySlug string) ([]domain.District, error)

	// FetchPharmacyByID returns a single pharmacy by its directory identifier.
	FetchPharmacyByID(ctx context.Context, id string) (*domain.Pharmacy, error)
}
