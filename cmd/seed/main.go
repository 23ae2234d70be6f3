package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"bruinplace/internal/config"
	"bruinplace/internal/db"
	"bruinplace/internal/model"
	"bruinplace/internal/repository"
)

// UCLA campus coordinates, used when the export carries no lat/lng.
const (
	defaultLatitude  = 34.0689
	defaultLongitude = -118.4452
)

const (
	scriptUserID    = "bruinplace-script-user"
	scriptUserEmail = "bruin@bruinplace.dev"
	scriptUserName  = "BruinPlace Script User"
)

// amenityCatalog is the default amenity set exposed at /listings/amenities.
var amenityCatalog = []model.Amenity{
	{Key: "in_unit_laundry", Label: "In-unit laundry"},
	{Key: "parking", Label: "Parking"},
	{Key: "furnished", Label: "Furnished"},
	{Key: "air_conditioning", Label: "Air conditioning"},
	{Key: "dishwasher", Label: "Dishwasher"},
	{Key: "gym", Label: "Gym"},
	{Key: "pool", Label: "Pool"},
	{Key: "pet_friendly", Label: "Pet friendly"},
	{Key: "utilities_included", Label: "Utilities included"},
	{Key: "wifi_included", Label: "WiFi included"},
}

// SeedApartment mirrors one apartment entry in a UniShack JSON export.
type SeedApartment struct {
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	AddressMeta string     `json:"address_meta"`
	PostalCode  string     `json:"postal_code"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Country     string     `json:"country"`
	Units       []SeedUnit `json:"units"`
}

// SeedUnit mirrors one unit entry under an apartment.
type SeedUnit struct {
	UnitType        string `json:"unit_type"`
	Price           string `json:"price"`
	DepositAmount   string `json:"deposit_amount"`
	LeaseTermMonths string `json:"lease_term_months"`
	MaxOccupants    string `json:"max_occupants"`
	Availability    string `json:"availability"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <path-to-unishack.json>", os.Args[0])
	}
	jsonPath := os.Args[1]

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Property{},
		&model.Amenity{},
		&model.Listing{},
		&model.ListingAmenity{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	apartments, err := loadApartments(jsonPath)
	if err != nil {
		log.Fatalf("Failed to load export: %v", err)
	}
	log.Printf("Loaded %d apartments from %s", len(apartments), jsonPath)

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	propertyRepo := repository.NewPropertyRepository(gormDB)
	listingRepo := repository.NewListingRepository(gormDB)
	amenityRepo := repository.NewAmenityRepository(gormDB)

	seeded := 0
	for _, amenity := range amenityCatalog {
		a := amenity
		if err := amenityRepo.CreateIfMissing(ctx, &a); err != nil {
			log.Fatalf("Failed to seed amenity %s: %v", amenity.Key, err)
		}
		seeded++
	}
	log.Printf("Amenity catalog ensured (%d entries)", seeded)

	scriptUser, err := ensureScriptUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to ensure script user: %v", err)
	}
	log.Printf("Script user ready: id=%s, email=%s", scriptUser.ID, scriptUser.Email)

	propertyCount, listingCount, err := seedApartments(ctx, propertyRepo, listingRepo, scriptUser.ID, apartments)
	if err != nil {
		log.Fatalf("Failed to seed apartments: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Properties created: %d", propertyCount)
	log.Printf("  - Listings created: %d", listingCount)
}

// loadApartments reads and parses a UniShack JSON export.
func loadApartments(path string) ([]SeedApartment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}
	var apartments []SeedApartment
	if err := json.Unmarshal(raw, &apartments); err != nil {
		return nil, fmt.Errorf("parse export JSON: %w", err)
	}
	return apartments, nil
}

// ensureScriptUser returns the shared script user, creating it when missing.
func ensureScriptUser(ctx context.Context, users repository.UserRepository) (*model.User, error) {
	name := scriptUserName
	return users.UpsertFromIdentity(ctx, &model.User{
		ID:    scriptUserID,
		Email: scriptUserEmail,
		Name:  &name,
	})
}

// seedApartments creates one property per apartment and one listing per unit,
// all owned by the script user.
func seedApartments(
	ctx context.Context,
	properties repository.PropertyRepository,
	listings repository.ListingRepository,
	ownerID string,
	apartments []SeedApartment,
) (propertyCount int, listingCount int, err error) {
	for _, apt := range apartments {
		property := &model.Property{
			OwnerID:    ownerID,
			Name:       apt.Name,
			Address:    fallback(apt.Address, apt.Name),
			PostalCode: fallback(apt.PostalCode, "90024"),
			City:       fallback(apt.City, "Los Angeles"),
			State:      fallback(apt.State, "CA"),
			Country:    fallback(apt.Country, "US"),
			Latitude:   defaultLatitude,
			Longitude:  defaultLongitude,
		}
		if err := properties.Create(ctx, property); err != nil {
			return propertyCount, listingCount, fmt.Errorf("create property %q: %w", apt.Name, err)
		}
		propertyCount++

		for _, unit := range apt.Units {
			listing := &model.Listing{
				PropertyID:      property.ID,
				OwnerID:         ownerID,
				Title:           fmt.Sprintf("%s - %s", apt.Name, fallback(unit.UnitType, "Unit")),
				Description:     apt.AddressMeta,
				MonthlyRent:     parsePrice(unit.Price),
				DepositAmount:   optionalPrice(unit.DepositAmount),
				LeaseTermMonths: parseInt(unit.LeaseTermMonths),
				MaxOccupants:    parseInt(unit.MaxOccupants),
				UnitType:        mapUnitType(unit.UnitType),
				Status:          mapStatus(unit.Availability),
			}
			if err := listings.CreateWithAmenities(ctx, listing, nil); err != nil {
				return propertyCount, listingCount, fmt.Errorf("create listing for %q: %w", apt.Name, err)
			}
			listingCount++
		}
	}
	return propertyCount, listingCount, nil
}

var (
	digitsRe   = regexp.MustCompile(`[^\d]`)
	firstIntRe = regexp.MustCompile(`\d+`)
)

// parsePrice extracts the dollar amount from strings like "$ 1050 +/mo".
func parsePrice(raw string) int {
	digits := digitsRe.ReplaceAllString(raw, "")
	if digits == "" {
		return 0
	}
	n, _ := strconv.Atoi(digits)
	return n
}

func optionalPrice(raw string) *int {
	if raw == "" {
		return nil
	}
	n := parsePrice(raw)
	return &n
}

// parseInt extracts the first integer from strings like "3 Month Lease".
func parseInt(raw string) *int {
	match := firstIntRe.FindString(raw)
	if match == "" {
		return nil
	}
	n, _ := strconv.Atoi(match)
	return &n
}

func mapUnitType(raw string) model.UnitType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "double", "triple":
		return model.UnitTypeSharedRoom
	case "private room":
		return model.UnitTypePrivateRoom
	case "studio":
		return model.UnitTypeStudio
	default:
		return model.UnitTypeOther
	}
}

func mapStatus(availability string) model.ListingStatus {
	if strings.Contains(strings.ToLower(availability), "available") {
		return model.ListingStatusActive
	}
	return model.ListingStatusArchived
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
