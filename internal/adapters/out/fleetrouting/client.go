package fleetrouting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/core/domain/services/routing"
	"fooddrop/internal/pkg/errs"
)

const serviceName = "fleet-routing"

// Client implements routing.Algorithm against a remote optimizeTours
// endpoint.
type Client struct {
	endpoint    string
	credentials TokenSource
	client      *http.Client
	logger      *slog.Logger
}

// NewClient creates a fleet-routing client for the given optimizeTours
// endpoint.
func NewClient(endpoint string, credentials TokenSource, logger *slog.Logger) (*Client, error) {
	if endpoint == "" {
		return nil, errs.NewValueIsRequiredError("endpoint")
	}
	if credentials == nil {
		return nil, errs.NewValueIsRequiredError("credentials")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Client{
		endpoint:    endpoint,
		credentials: credentials,
		client:      &http.Client{},
		logger:      logger.With("component", "fleetrouting"),
	}, nil
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type loadLimit struct {
	MaxLoad string `json:"maxLoad"`
}

type loadAmount struct {
	Amount string `json:"amount"`
}

type vehicle struct {
	DisplayName   string               `json:"displayName"`
	StartLocation latLng               `json:"startLocation"`
	EndLocation   *latLng              `json:"endLocation,omitempty"`
	LoadLimits    map[string]loadLimit `json:"loadLimits,omitempty"`
}

type visitRequest struct {
	ArrivalLocation latLng                `json:"arrivalLocation"`
	Duration        string                `json:"duration,omitempty"`
	LoadDemands     map[string]loadAmount `json:"loadDemands,omitempty"`
}

type shipment struct {
	DisplayName           string         `json:"displayName"`
	Pickups               []visitRequest `json:"pickups,omitempty"`
	Deliveries            []visitRequest `json:"deliveries,omitempty"`
	AllowedVehicleIndices []int          `json:"allowedVehicleIndices,omitempty"`
}

type requestModel struct {
	Vehicles  []vehicle  `json:"vehicles"`
	Shipments []shipment `json:"shipments"`
}

type optimizeToursRequest struct {
	Model requestModel `json:"model"`
}

type visitResponse struct {
	ShipmentIndex int  `json:"shipmentIndex"`
	IsPickup      bool `json:"isPickup"`
}

type routeResponse struct {
	VehicleIndex int             `json:"vehicleIndex"`
	Visits       []visitResponse `json:"visits"`
}

type optimizeToursResponse struct {
	Routes []routeResponse `json:"routes"`
}

// GenerateRoutes implements routing.Algorithm. It posts the optimization
// model under the given wall-clock timeout and maps the per-vehicle visit
// lists back onto the input locations.
func (c *Client) GenerateRoutes(
	ctx context.Context,
	locations []*location.Location,
	warehouse kernel.GeoPoint,
	settings routing.Settings,
	timeout time.Duration,
) ([][]*location.Location, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := warehouse.Validate(); err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, errs.NewValueIsRequiredError("locations")
	}
	for _, loc := range locations {
		if err := loc.Validate(); err != nil {
			return nil, err
		}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	decoded, err := c.callOptimizeTours(ctx, buildPayload(locations, warehouse, settings))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errs.NewTimeoutExceededError("fleet-routing optimizeTours",
				timeout, time.Since(start))
		}
		return nil, err
	}

	return c.parseResponse(decoded, locations, settings.NumRoutes), nil
}

// buildPayload assembles the optimizeTours request model. Field names and
// index layout are a wire contract with the remote service: shipments are
// numRoutes forced pickups followed by one delivery per location, in
// input order.
func buildPayload(
	locations []*location.Location,
	warehouse kernel.GeoPoint,
	settings routing.Settings,
) optimizeToursRequest {
	depot := latLng{Latitude: warehouse.Latitude(), Longitude: warehouse.Longitude()}

	vehicles := make([]vehicle, 0, settings.NumRoutes)
	for i := 0; i < settings.NumRoutes; i++ {
		v := vehicle{
			DisplayName:   fmt.Sprintf("driver_%d", i),
			StartLocation: depot,
		}
		if settings.ReturnToWarehouse {
			end := depot
			v.EndLocation = &end
		}
		if settings.MaxBoxesPerRoute != nil {
			v.LoadLimits = map[string]loadLimit{
				"load": {MaxLoad: strconv.Itoa(*settings.MaxBoxesPerRoute)},
			}
		}
		vehicles = append(vehicles, v)
	}

	shipments := make([]shipment, 0, settings.NumRoutes+len(locations))
	for i := 0; i < settings.NumRoutes; i++ {
		shipments = append(shipments, shipment{
			DisplayName:           fmt.Sprintf("initial_load_driver_%d", i),
			Pickups:               []visitRequest{{ArrivalLocation: depot}},
			AllowedVehicleIndices: []int{i},
		})
	}

	serviceTime := fmt.Sprintf("%ds", int(settings.ServiceTimePerStop.Seconds()))
	for i, loc := range locations {
		shipments = append(shipments, shipment{
			DisplayName: fmt.Sprintf("ship_%d", i),
			Deliveries: []visitRequest{{
				ArrivalLocation: latLng{
					Latitude:  loc.Point().Latitude(),
					Longitude: loc.Point().Longitude(),
				},
				Duration:    serviceTime,
				LoadDemands: map[string]loadAmount{"load": {Amount: "1"}},
			}},
		})
	}

	return optimizeToursRequest{Model: requestModel{Vehicles: vehicles, Shipments: shipments}}
}

func (c *Client) callOptimizeTours(
	ctx context.Context,
	payload optimizeToursRequest,
) (optimizeToursResponse, error) {
	var decoded optimizeToursResponse

	body, err := json.Marshal(payload)
	if err != nil {
		return decoded, fmt.Errorf("marshal payload: %w", err)
	}

	token, err := c.credentials.Token(ctx)
	if err != nil {
		return decoded, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return decoded, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return decoded, ctx.Err()
		}
		return decoded, errs.NewExternalServiceErrorWithCause(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return decoded, errs.NewExternalServiceError(serviceName,
			resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return decoded, errs.NewExternalServiceErrorWithCause(serviceName,
			fmt.Errorf("decode response: %w", err))
	}

	return decoded, nil
}

// parseResponse maps per-vehicle visits back onto input locations.
// Pickup visits are the forced initial loads and carry no location, so
// they are skipped. A vehicle index outside the requested range is
// logged and dropped rather than failing the run: a partial result is
// still usable.
func (c *Client) parseResponse(
	decoded optimizeToursResponse,
	locations []*location.Location,
	numRoutes int,
) [][]*location.Location {
	routes := make([][]*location.Location, numRoutes)
	for i := range routes {
		routes[i] = make([]*location.Location, 0)
	}

	for _, rt := range decoded.Routes {
		if rt.VehicleIndex < 0 || rt.VehicleIndex >= numRoutes {
			c.logger.Warn("skipping route with unexpected vehicle index",
				"vehicleIndex", rt.VehicleIndex, "numRoutes", numRoutes)
			continue
		}

		for _, visit := range rt.Visits {
			if visit.IsPickup {
				continue
			}
			locationIndex := visit.ShipmentIndex - numRoutes
			if locationIndex >= 0 && locationIndex < len(locations) {
				routes[rt.VehicleIndex] = append(routes[rt.VehicleIndex], locations[locationIndex])
			}
		}
	}

	return routes
}
