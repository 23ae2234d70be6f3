package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bruinplace/internal/cache"
	apperrors "bruinplace/internal/errors"
	"bruinplace/internal/geo"
	"bruinplace/internal/model"
	"bruinplace/internal/repository"
)

const propertyDetailCacheTTL = 5 * time.Minute

// PropertySearchParams holds text, geo, and pagination parameters for a
// property search.
type PropertySearchParams struct {
	Q       string
	City    string
	State   string
	Country string
	// Latitude/Longitude define an optional center point; when both are set
	// every candidate gets a computed distance and results sort closest first.
	Latitude  *float64
	Longitude *float64
	// RadiusKm filters to distance <= radius. Ignored without a center point.
	RadiusKm *float64
	Limit    int
	Offset   int
}

// PropertySearchItem is a property with its optional computed distance.
type PropertySearchItem struct {
	model.Property
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// PropertyPage is one page of search results with the post-filter total.
type PropertyPage struct {
	Items []PropertySearchItem `json:"items"`
	Total int64                `json:"total"`
}

// ReviewStats aggregates a property's reviews. AverageRating is nil when the
// property has no reviews.
type ReviewStats struct {
	ReviewCount   int      `json:"review_count"`
	AverageRating *float64 `json:"average_rating"`
}

// PropertyDetail is a property with aggregated review statistics.
type PropertyDetail struct {
	model.Property
	ReviewStats ReviewStats `json:"review_stats"`
}

// ReviewPage is one page of reviews with the pre-pagination total.
type ReviewPage struct {
	Items []model.Review `json:"items"`
	Total int64          `json:"total"`
}

// CreatePropertyInput is the payload for creating a property.
type CreatePropertyInput struct {
	Name              string
	Address           string
	PostalCode        string
	City              string
	State             string
	Country           string
	Latitude          float64
	Longitude         float64
	ManagementCompany *string
}

// UpdatePropertyInput is the payload for a partial property update.
type UpdatePropertyInput struct {
	Name              *string
	Address           *string
	PostalCode        *string
	City              *string
	State             *string
	Country           *string
	Latitude          *float64
	Longitude         *float64
	ManagementCompany *string
}

// PropertyService handles property search, detail aggregation, and mutation.
type PropertyService interface {
	Search(ctx context.Context, params PropertySearchParams) (*PropertyPage, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*PropertyDetail, error)
	Create(ctx context.Context, ownerID string, input CreatePropertyInput) (*model.Property, error)
	Update(ctx context.Context, id uuid.UUID, ownerID string, input UpdatePropertyInput) (*model.Property, error)
	SoftDelete(ctx context.Context, id uuid.UUID, ownerID string) error
	ListListings(ctx context.Context, propertyID uuid.UUID, limit, offset int) (*ListingPage, error)
	ListReviews(ctx context.Context, propertyID uuid.UUID, limit, offset int) (*ReviewPage, error)
}

type propertyService struct {
	properties repository.PropertyRepository
	reviews    repository.ReviewRepository
	listings   ListingService
	cache      *cache.Client
	// ownerCheck gates ownership enforcement on update/soft-delete.
	// Off by default for compatibility with existing clients.
	ownerCheck bool
}

// NewPropertyService creates a new property service.
func NewPropertyService(
	properties repository.PropertyRepository,
	reviews repository.ReviewRepository,
	listings ListingService,
	cache *cache.Client,
	ownerCheck bool,
) PropertyService {
	return &propertyService{
		properties: properties,
		reviews:    reviews,
		listings:   listings,
		cache:      cache,
		ownerCheck: ownerCheck,
	}
}

func (s *propertyService) detailCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("property_detail:%s", id.String())
}

// Search filters properties in the store, then applies the geo pass in memory:
// distance per candidate, radius cutoff, closest-first ordering. Pagination
// runs after the full pass, so total reflects the post-filter count.
func (s *propertyService) Search(ctx context.Context, params PropertySearchParams) (*PropertyPage, error) {
	limit, offset := normalizePage(params.Limit, params.Offset)

	rows, err := s.properties.SearchAll(ctx, repository.PropertyFilter{
		Q:       params.Q,
		City:    params.City,
		State:   params.State,
		Country: params.Country,
	})
	if err != nil {
		return nil, err
	}

	hasCenter := params.Latitude != nil && params.Longitude != nil

	items := make([]PropertySearchItem, 0, len(rows))
	for _, row := range rows {
		item := PropertySearchItem{Property: row}
		if hasCenter {
			d := geo.HaversineKm(*params.Latitude, *params.Longitude, row.Latitude, row.Longitude)
			item.DistanceKm = &d
		}
		items = append(items, item)
	}

	// A radius without a center point is ignored, not an error.
	if params.RadiusKm != nil && hasCenter {
		filtered := items[:0]
		for _, item := range items {
			if item.DistanceKm != nil && *item.DistanceKm <= *params.RadiusKm {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	if hasCenter {
		sort.SliceStable(items, func(i, j int) bool {
			return *items[i].DistanceKm < *items[j].DistanceKm
		})
	}

	total := int64(len(items))
	if offset >= len(items) {
		items = []PropertySearchItem{}
	} else {
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		items = items[offset:end]
	}
	return &PropertyPage{Items: items, Total: total}, nil
}

// GetDetail returns property fields plus review stats, cached briefly.
func (s *propertyService) GetDetail(ctx context.Context, id uuid.UUID) (*PropertyDetail, error) {
	if data, _ := s.cache.Get(ctx, s.detailCacheKey(id)); data != nil {
		var cached PropertyDetail
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	property, err := s.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	count, avg, err := s.properties.ReviewStats(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &PropertyDetail{
		Property:    *property,
		ReviewStats: ReviewStats{ReviewCount: int(count)},
	}
	if avg != nil && count > 0 {
		rounded := math.Round(*avg*100) / 100
		detail.ReviewStats.AverageRating = &rounded
	}

	if payload, err := json.Marshal(detail); err == nil {
		_ = s.cache.Set(ctx, s.detailCacheKey(id), payload, propertyDetailCacheTTL)
	}
	return detail, nil
}

// Create inserts a property.
func (s *propertyService) Create(ctx context.Context, ownerID string, input CreatePropertyInput) (*model.Property, error) {
	property := &model.Property{
		OwnerID:           ownerID,
		Name:              input.Name,
		Address:           input.Address,
		PostalCode:        input.PostalCode,
		City:              input.City,
		State:             input.State,
		Country:           input.Country,
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
		ManagementCompany: input.ManagementCompany,
	}
	if err := s.properties.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// Update applies a partial update. With ownerCheck enabled a non-owner gets
// the same not-found signal as an absent property.
func (s *propertyService) Update(ctx context.Context, id uuid.UUID, ownerID string, input UpdatePropertyInput) (*model.Property, error) {
	property, err := s.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.ownerCheck && property.OwnerID != ownerID {
		return nil, apperrors.ErrPropertyNotFound
	}

	applyPropertyUpdate(property, input)
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.detailCacheKey(id))
	return property, nil
}

// SoftDelete marks a property deleted, with the same ownership gating as
// Update.
func (s *propertyService) SoftDelete(ctx context.Context, id uuid.UUID, ownerID string) error {
	property, err := s.findProperty(ctx, id)
	if err != nil {
		return err
	}
	if s.ownerCheck && property.OwnerID != ownerID {
		return apperrors.ErrPropertyNotFound
	}
	if err := s.properties.SoftDelete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.detailCacheKey(id))
	return nil
}

// ListListings returns listings scoped to a property via the listing search.
func (s *propertyService) ListListings(ctx context.Context, propertyID uuid.UUID, limit, offset int) (*ListingPage, error) {
	if _, err := s.findProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.listings.Search(ctx, SearchListingsParams{
		PropertyID: &propertyID,
		Limit:      limit,
		Offset:     offset,
	})
}

// ListReviews returns a page of the property's reviews, newest first.
func (s *propertyService) ListReviews(ctx context.Context, propertyID uuid.UUID, limit, offset int) (*ReviewPage, error) {
	if _, err := s.findProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	limit, offset = normalizePage(limit, offset)
	reviews, total, err := s.reviews.ListByProperty(ctx, propertyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{Items: reviews, Total: total}, nil
}

func (s *propertyService) findProperty(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, err
	}
	return property, nil
}

func applyPropertyUpdate(property *model.Property, input UpdatePropertyInput) {
	if input.Name != nil {
		property.Name = *input.Name
	}
	if input.Address != nil {
		property.Address = *input.Address
	}
	if input.PostalCode != nil {
		property.PostalCode = *input.PostalCode
	}
	if input.City != nil {
		property.City = *input.City
	}
	if input.State != nil {
		property.State = *input.State
	}
	if input.Country != nil {
		property.Country = *input.Country
	}
	if input.Latitude != nil {
		property.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		property.Longitude = *input.Longitude
	}
	if input.ManagementCompany != nil {
		property.ManagementCompany = input.ManagementCompany
	}
}
