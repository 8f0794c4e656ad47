package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/adapters/database"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/clients/postgres"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
	"github.com/JamesKof/ghana-health-connect-sub000/pkg/config"
)

// facilityNamespace keeps seeded ids stable across runs so reseeding upserts.
var facilityNamespace = uuid.MustParse("6f1c4e0a-2b9d-4f53-9a57-3d1f0e8b7c21")

type seedFacility struct {
	Name     string
	Category string
	Region   entities.Region
	Lat, Lng float64
	Services []string
	Phone    string
	Address  string
}

var seedFacilities = []seedFacility{
	{"Korle Bu Teaching Hospital", "Teaching Hospital", entities.RegionGreaterAccra, 5.5365, -0.2273, []string{"OPD", "Surgery", "Maternity", "Emergency", "Laboratory"}, "+233 302 739 510", "Guggisberg Ave, Accra"},
	{"37 Military Hospital", "Hospital", entities.RegionGreaterAccra, 5.5870, -0.1840, []string{"OPD", "Emergency", "Surgery"}, "+233 302 776 111", "Liberation Rd, Accra"},
	{"Ridge Hospital", "Regional Hospital", entities.RegionGreaterAccra, 5.5631, -0.1990, []string{"OPD", "Maternity", "Paediatrics"}, "+233 302 228 382", "Castle Rd, Ridge, Accra"},
	{"La General Hospital", "Hospital", entities.RegionGreaterAccra, 5.5610, -0.1550, []string{"OPD", "Maternity"}, "", "La, Accra"},
	{"Achimota Hospital", "District Hospital", entities.RegionGreaterAccra, 5.6220, -0.2260, []string{"OPD", "Laboratory"}, "", "Achimota, Accra"},
	{"Tema General Hospital", "Hospital", entities.RegionGreaterAccra, 5.6698, -0.0166, []string{"OPD", "Emergency", "Maternity"}, "", "Community 7, Tema"},
	{"Komfo Anokye Teaching Hospital", "Teaching Hospital", entities.RegionAshanti, 6.6976, -1.6286, []string{"OPD", "Surgery", "Emergency", "Oncology"}, "+233 322 022 301", "Bantama, Kumasi"},
	{"Manhyia District Hospital", "District Hospital", entities.RegionAshanti, 6.7080, -1.6130, []string{"OPD", "Maternity"}, "", "Manhyia, Kumasi"},
	{"Cape Coast Teaching Hospital", "Teaching Hospital", entities.RegionCentral, 5.1390, -1.2870, []string{"OPD", "Surgery", "Emergency"}, "+233 332 134 170", "Interberton, Cape Coast"},
	{"Effia Nkwanta Regional Hospital", "Regional Hospital", entities.RegionWestern, 4.9090, -1.7720, []string{"OPD", "Surgery", "Maternity"}, "", "Effia, Sekondi-Takoradi"},
	{"Koforidua Regional Hospital", "Regional Hospital", entities.RegionEastern, 6.0940, -0.2590, []string{"OPD", "Maternity", "Emergency"}, "", "Koforidua"},
	{"Ho Teaching Hospital", "Teaching Hospital", entities.RegionVolta, 6.6050, 0.4700, []string{"OPD", "Surgery", "Laboratory"}, "", "Ho"},
	{"Tamale Teaching Hospital", "Teaching Hospital", entities.RegionNorthern, 9.4200, -0.8330, []string{"OPD", "Surgery", "Emergency"}, "+233 372 022 454", "Tamale"},
	{"Bolgatanga Regional Hospital", "Regional Hospital", entities.RegionUpperEast, 10.7870, -0.8510, []string{"OPD", "Maternity"}, "", "Bolgatanga"},
	{"Upper West Regional Hospital", "Regional Hospital", entities.RegionUpperWest, 10.0600, -2.5090, []string{"OPD", "Maternity"}, "", "Wa"},
	{"Sunyani Regional Hospital", "Regional Hospital", entities.RegionBono, 7.3390, -2.3270, []string{"OPD", "Surgery"}, "", "Sunyani"},
	{"Techiman Holy Family Hospital", "Hospital", entities.RegionBonoEast, 7.5860, -1.9390, []string{"OPD", "Maternity"}, "", "Techiman"},
	{"Goaso Municipal Hospital", "District Hospital", entities.RegionAhafo, 6.8040, -2.5170, []string{"OPD"}, "", "Goaso"},
	{"Damongo West Gonja Hospital", "Hospital", entities.RegionSavannah, 9.0830, -1.8180, []string{"OPD", "Maternity"}, "", "Damongo"},
	{"Nalerigu Baptist Medical Centre", "Hospital", entities.RegionNorthEast, 10.5270, -0.3690, []string{"OPD", "Surgery"}, "", "Nalerigu"},
	{"Dambai Health Centre", "Health Centre", entities.RegionOti, 8.0700, 0.1790, []string{"OPD"}, "", "Dambai"},
	{"Sefwi Wiawso Municipal Hospital", "District Hospital", entities.RegionWesternNorth, 6.2150, -2.4850, []string{"OPD", "Maternity"}, "", "Sefwi Wiawso"},
	{"Legon Hospital", "Clinic", entities.RegionGreaterAccra, 5.6505, -0.1870, []string{"OPD", "Laboratory"}, "", "University of Ghana, Legon"},
	{"Ernest Chemists East Legon", "Pharmacy", entities.RegionGreaterAccra, 5.6350, -0.1610, []string{"Dispensary"}, "", "East Legon, Accra"},
	{"Kumasi South Hospital", "Hospital", entities.RegionAshanti, 6.6660, -1.6140, []string{"OPD", "Maternity"}, "", "Atonsu, Kumasi"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("health-connect-seed", cfg.Server.Env, cfg.Server.LogLevel)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Warn().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE facility_reviews, facilities CASCADE`); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	facilityRepo := database.NewFacilityAdapter(pgClient, nil)

	seeded, failed := 0, 0
	for _, s := range seedFacilities {
		facility := s.toEntity()
		if err := facilityRepo.Upsert(ctx, &facility); err != nil {
			log.Error().Err(err).Str("facility", s.Name).Msg("Failed to seed facility")
			failed++
			continue
		}
		seeded++
	}

	log.Info().Int("seeded", seeded).Int("failed", failed).Msg("Seeding complete")
	if failed > 0 {
		os.Exit(1)
	}
}

func (s seedFacility) toEntity() entities.Facility {
	return entities.Facility{
		ID:          uuid.NewSHA1(facilityNamespace, []byte(s.Name)).String(),
		Name:        s.Name,
		Category:    s.Category,
		Region:      s.Region,
		Location:    entities.Location{Latitude: s.Lat, Longitude: s.Lng},
		Services:    s.Services,
		PhoneNumber: s.Phone,
		Address:     s.Address,
	}
}
