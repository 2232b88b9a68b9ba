package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Coordinates распарсенные координаты адреса
type Coordinates struct {
	Longitude float64
	Latitude  float64
}

// Client клиент для Nominatim-совместимого геокодера
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента геокодера
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Resolve геокодирует адрес в координаты
func (c *Client) Resolve(ctx context.Context, address string) (*Coordinates, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var locations []Location
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if len(locations) == 0 {
		return nil, ErrAddressNotFound
	}

	return parseCoordinates(&locations[0])
}

// ResolveWithGracefulDegradation геокодирует адрес с graceful degradation
// При недоступности геокодера возвращает ErrServiceDegraded - слот
// сохраняется без координат и не попадает на карту, но остаётся в списке
func (c *Client) ResolveWithGracefulDegradation(ctx context.Context, address string) (*Coordinates, error) {
	c.log.Info("Resolving coordinates for address=%q", address)

	coords, err := c.Resolve(ctx, address)
	if err != nil {
		// Ненайденный адрес - бизнес-результат, пробрасываем дальше
		if err == ErrAddressNotFound {
			c.log.Info("No coordinates found for address=%q", address)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("Geocoder unavailable, applying graceful degradation for address=%q: %v", address, err)
		return nil, fmt.Errorf("%w: address=%q, error=%v", ErrServiceDegraded, address, err)
	}

	c.log.Info("Successfully resolved address=%q to lon=%f lat=%f", address, coords.Longitude, coords.Latitude)
	return coords, nil
}

func parseCoordinates(loc *Location) (*Coordinates, error) {
	lon, err := strconv.ParseFloat(loc.Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse longitude %q: %v", ErrInvalidResponse, loc.Longitude, err)
	}

	lat, err := strconv.ParseFloat(loc.Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse latitude %q: %v", ErrInvalidResponse, loc.Latitude, err)
	}

	return &Coordinates{Longitude: lon, Latitude: lat}, nil
}
