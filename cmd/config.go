package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// WarehouseLat and WarehouseLon locate the depot every route starts from.
	WarehouseLat string
	WarehouseLon string

	// RoutingAlgorithm selects the route generator: "sweep", "sweep-packer",
	// "kmeans", "greedy" or "fleet" (the external optimizer). With
	// "sweep-packer" the capacity cap decides the route count and the
	// requested number of routes is ignored.
	RoutingAlgorithm string

	FleetRoutingEndpoint     string
	FleetRoutingTokenURL     string
	FleetRoutingClientID     string
	FleetRoutingClientSecret string

	GeocodingEndpoint string
	GeocodingAPIKey   string

	// WorkerPollInterval and JobTimeout are Go duration strings; empty
	// values fall back to the worker defaults.
	WorkerPollInterval string
	JobTimeout         string
}
