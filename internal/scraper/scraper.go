package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"laundry-status-monitor/config"
	"laundry-status-monitor/internal/model"
)

// Client talks to the CSC laundry API for a single location.
type Client struct {
	baseURL     string
	locationID  string
	concurrency int
	client      *http.Client
	limiter     *rate.Limiter
}

// NewClient creates a client from the scraper configuration.
func NewClient(cfg config.ScraperConfig) *Client {
	var transport http.RoundTripper = &http.Transport{Proxy: http.ProxyFromEnvironment}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			logrus.WithError(err).WithField("proxy", cfg.HTTPProxy).Warn("Invalid proxy URL, scraper will not use a proxy")
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1)
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		locationID:  cfg.LocationID,
		concurrency: concurrency,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		limiter: limiter,
	}
}

// GetRooms returns the rooms whose label contains label. An empty label matches every room.
func (c *Client) GetRooms(ctx context.Context, label string) ([]model.Room, error) {
	var resp locationResponse
	if err := c.getJSON(ctx, c.locationPath(), &resp); err != nil {
		return nil, err
	}

	rooms := make([]model.Room, 0, len(resp.Rooms))
	for _, room := range resp.Rooms {
		if strings.Contains(room.Label, label) {
			rooms = append(rooms, model.Room{Label: room.Label, RoomID: room.RoomID})
		}
	}
	return rooms, nil
}

// GetRoomSummaries fetches the summary of every room concurrently. The result keeps the
// order of rooms. A single failure fails the whole call.
func (c *Client) GetRoomSummaries(ctx context.Context, rooms []model.Room) ([]model.RoomSummary, error) {
	summaries := make([]model.RoomSummary, len(rooms))
	if len(rooms) == 0 {
		return summaries, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, room := range rooms {
		g.Go(func() error {
			var resp summaryResponse
			if err := c.getJSON(gctx, c.roomPath(room.RoomID, "summary"), &resp); err != nil {
				return err
			}
			summaries[i] = resp.toSummary()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetMachines returns the machines of one room in upstream order.
func (c *Client) GetMachines(ctx context.Context, roomID string) ([]model.Machine, error) {
	var machines []model.Machine
	if err := c.getJSON(ctx, c.roomPath(roomID, "machines"), &machines); err != nil {
		return nil, err
	}
	return machines, nil
}

func (c *Client) locationPath() string {
	return "location/" + url.PathEscape(c.locationID)
}

func (c *Client) roomPath(roomID, leaf string) string {
	return c.locationPath() + "/room/" + url.PathEscape(roomID) + "/" + leaf
}

func (c *Client) getJSON(ctx context.Context, resource string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+resource, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{StatusCode: resp.StatusCode, Resource: resource}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", resource, err)
	}

	logrus.WithField("resource", resource).Debug("Fetched upstream resource")
	return nil
}
