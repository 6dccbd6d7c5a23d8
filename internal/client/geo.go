package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// LocationNotFound es lo que se guarda cuando el servicio responde sin ciudad.
const LocationNotFound = "Localidad no encontrada"

// GeoLocator resuelve la IP pública y la ciudad a partir de la IP.
// Ambas llamadas son opcionales: ante cualquier error devuelven nil.
type GeoLocator struct {
	ipURL  string
	geoURL string // con un %s donde va la IP
	client *http.Client
}

func NewGeoLocator(ipURL, geoURL string, httpClient *http.Client) *GeoLocator {
	return &GeoLocator{ipURL: ipURL, geoURL: geoURL, client: httpClient}
}

// PublicIP consulta el servicio "cuál es mi IP".
func (g *GeoLocator) PublicIP(ctx context.Context) (*string, error) {
	var out struct {
		IP string `json:"ip"`
	}
	if err := g.getJSON(ctx, g.ipURL, &out); err != nil {
		return nil, err
	}
	if out.IP == "" {
		return nil, errors.New("respuesta sin ip")
	}
	return &out.IP, nil
}

// City resuelve la localidad de una IP.
func (g *GeoLocator) City(ctx context.Context, ip string) (*string, error) {
	var out struct {
		City string `json:"city"`
	}
	if err := g.getJSON(ctx, fmt.Sprintf(g.geoURL, ip), &out); err != nil {
		return nil, err
	}
	city := strings.TrimSpace(out.City)
	if city == "" {
		city = LocationNotFound
	}
	return &city, nil
}

func (g *GeoLocator) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("geo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geo request %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
