// ABOUTME: Index builder turns a flat pharmacy list into lookup structures
// ABOUTME: Groups by normalized city/district keys, preserving input order

package index

import (
	"pharmacy-duty-api/core/domain"
	"pharmacy-duty-api/core/normalize"
)

// NoDistrict is the sentinel grouping key for records with an empty
// district. The resolver never exposes it as a selectable district.
const NoDistrict = "_nodistrict"

// CityIndex maps a normalized city key to the pharmacies in that city,
// in input order.
type CityIndex map[string][]domain.Pharmacy

// CityDistrictIndex maps a normalized city key to a normalized district
// key to the pharmacies in that district, in input order.
type CityDistrictIndex map[string]map[string][]domain.Pharmacy

// ByCity groups records by normalized city. Grouping is stable: within a
// city, records keep their input order. An empty input yields an empty index.
func ByCity(records []domain.Pharmacy) CityIndex {
	idx := make(CityIndex, len(records)/8+1)
	for _, rec := range records {
		key := normalize.Key(rec.City)
		idx[key] = append(idx[key], rec)
	}
	return idx
}

// ByCityAndDistrict groups records by normalized city, then by normalized
// district. Records with an empty district land under NoDistrict.
func ByCityAndDistrict(records []domain.Pharmacy) CityDistrictIndex {
	idx := make(CityDistrictIndex)
	for _, rec := range records {
		cityKey := normalize.Key(rec.City)
		districtKey := normalize.Key(rec.District)
		if districtKey == "" {
			districtKey = NoDistrict
		}

		districts, ok := idx[cityKey]
		if !ok {
			districts = make(map[string][]domain.Pharmacy)
			idx[cityKey] = districts
		}
		districts[districtKey] = append(districts[districtKey], rec)
	}
	return idx
}

// ByID builds an identifier-unique index. The first record with a given ID
// wins; later duplicates are dropped silently.
func ByID(records []domain.Pharmacy) map[string]domain.Pharmacy {
	idx := make(map[string]domain.Pharmacy, len(records))
	for _, rec := range records {
		if _, exists := idx[rec.ID]; exists {
			continue
		}
		idx[rec.ID] = rec
	}
	return idx
}

// CountByCity returns the number of pharmacies per normalized city key.
func CountByCity(idx CityIndex) map[string]int {
	counts := make(map[string]int, len(idx))
	for city, records := range idx {
		counts[city] = len(records)
	}
	return counts
}

// CountByDistrict returns pharmacies per normalized district key for one
// city of a CityDistrictIndex. The sentinel NoDistrict bucket is excluded
// since it is never selectable.
func CountByDistrict(districts map[string][]domain.Pharmacy) map[string]int {
	counts := make(map[string]int, len(districts))
	for district, records := range districts {
		if district == NoDistrict {
			continue
		}
		counts[district] = len(records)
	}
	return counts
}
