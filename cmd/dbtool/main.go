// Command dbtool creates the database schema and optionally seeds demo
// locations. The service itself never migrates; run this once per
// environment before starting the app.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id uuid PRIMARY KEY,
		group_id uuid,
		address text NOT NULL DEFAULT '',
		latitude double precision,
		longitude double precision,
		num_boxes integer NOT NULL DEFAULT 0,
		geocoded_at timestamptz
	)`,
	`CREATE INDEX IF NOT EXISTS idx_locations_group_id ON locations (group_id)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id uuid PRIMARY KEY,
		location_group_id uuid NOT NULL,
		route_group_id uuid,
		progress integer NOT NULL,
		message text NOT NULL DEFAULT '',
		settings jsonb NOT NULL,
		created_at timestamptz NOT NULL,
		started_at timestamptz,
		updated_at timestamptz,
		finished_at timestamptz
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_location_group_id ON jobs (location_group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_progress_created_at ON jobs (progress, created_at)`,

	`CREATE TABLE IF NOT EXISTS route_groups (
		id uuid PRIMARY KEY,
		location_group_id uuid NOT NULL,
		created_at timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_route_groups_location_group_id ON route_groups (location_group_id)`,

	`CREATE TABLE IF NOT EXISTS routes (
		id uuid PRIMARY KEY,
		group_id uuid NOT NULL REFERENCES route_groups (id),
		name text NOT NULL,
		length double precision NOT NULL,
		encoded_path text,
		path_expires_at timestamptz
	)`,
	`CREATE INDEX IF NOT EXISTS idx_routes_group_id ON routes (group_id)`,

	`CREATE TABLE IF NOT EXISTS route_stops (
		route_id uuid NOT NULL REFERENCES routes (id),
		number integer NOT NULL,
		location_id uuid NOT NULL,
		PRIMARY KEY (route_id, number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_route_stops_location_id ON route_stops (location_id)`,
}

// seedLocations are demo stops around the Kitchener-Waterloo warehouse.
var seedLocations = []struct {
	address   string
	latitude  float64
	longitude float64
	numBoxes  int
}{
	{"120 King St W, Kitchener", 43.4516, -80.4925, 2},
	{"75 Queen St S, Kitchener", 43.4489, -80.4889, 1},
	{"200 University Ave W, Waterloo", 43.4723, -80.5449, 3},
	{"85 Willis Way, Waterloo", 43.4634, -80.5222, 1},
	{"50 Ottawa St S, Kitchener", 43.4382, -80.4734, 2},
	{"1405 Victoria St N, Kitchener", 43.4721, -80.4459, 4},
}

func main() {
	seed := flag.Bool("seed", false, "insert demo locations after creating the schema")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Fatalf("Error loading .env file")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), os.Getenv("DB_SSLMODE"))

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	for _, statement := range schema {
		if _, err := db.Exec(statement); err != nil {
			log.Fatalf("Error applying schema: %v", err)
		}
	}
	log.Info("Schema is up to date")

	if *seed {
		groupID := uuid.New()
		for _, loc := range seedLocations {
			_, err := db.Exec(
				`INSERT INTO locations (id, group_id, address, latitude, longitude, num_boxes, geocoded_at)
				 VALUES ($1, $2, $3, $4, $5, $6, now())`,
				uuid.New(), groupID, loc.address, loc.latitude, loc.longitude, loc.numBoxes)
			if err != nil {
				log.Fatalf("Error seeding locations: %v", err)
			}
		}
		log.Infof("Seeded %d locations into group %s", len(seedLocations), groupID)
	}
}
