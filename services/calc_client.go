package services

import (
	"backend/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// CalcClient is the remote calculation-backend surface the pipeline builds
// against. Every entity the pipeline materializes (enclosures, wall nodes,
// associations) lives on that backend; this interface carries exactly the
// operations the orchestration needs, so tests can swap in a mock.
type CalcClient interface {
	GetEnclosureTyping(ctx context.Context, code string) (*models.EnclosureTyping, error)
	CreateEnclosure(ctx context.Context, req EnclosureCreateRequest) (int, error)
	CreateWallMaster(ctx context.Context, req WallMasterRequest) (int, error)
	CreateWallLayer(ctx context.Context, req WallLayerRequest) error
	GetMaterialByCode(ctx context.Context, code string) (*models.Material, error)
	AssociateWallRoom(ctx context.Context, req WallRoomAssociation) error
	GetFloorDetails(ctx context.Context, projectID int) ([]models.FloorDetail, error)
	AssociateFloorRoom(ctx context.Context, req FloorRoomAssociation) error
	AssociateDoorRoom(ctx context.Context, req DoorRoomAssociation) error
	UpdateProjectStatus(ctx context.Context, projectID int, status string) error
}

// EnclosureCreateRequest materializes one room on the calc backend.
type EnclosureCreateRequest struct {
	ProjectID       int     `json:"project_id"`
	Name            string  `json:"name"`
	OccupationID    int     `json:"occupation_profile_id"`
	Height          float64 `json:"height"`
	CO2SensorActive bool    `json:"co2_sensor_active"`
	Level           int     `json:"level"`
}

// WallMasterRequest creates the master detail node of one wall group.
type WallMasterRequest struct {
	ProjectID     int    `json:"project_id"`
	Code          string `json:"code"`
	InteriorColor string `json:"interior_color"`
	ExteriorColor string `json:"exterior_color"`
}

// WallLayerRequest creates one child layer node under a master wall node.
type WallLayerRequest struct {
	MasterID   int     `json:"detail_id"`
	Location   string  `json:"location"`
	Name       string  `json:"name"`
	MaterialID int     `json:"material_id"`
	Thickness  float64 `json:"thickness"`
}

// WallRoomAssociation links a master wall node to an enclosure.
type WallRoomAssociation struct {
	EnclosureID    int     `json:"enclosure_id"`
	MasterID       int     `json:"detail_id"`
	Characteristic string  `json:"characteristic"`
	Azimuth        string  `json:"azimuth"`
	Area           float64 `json:"area"`
}

// FloorRoomAssociation links a catalogued floor to an enclosure. ValueU and
// Calculations are the catalogue's transmittance payload passed through
// verbatim.
type FloorRoomAssociation struct {
	EnclosureID    int             `json:"enclosure_id"`
	FloorID        int             `json:"floor_id"`
	Characteristic string          `json:"characteristic"`
	Area           float64         `json:"area"`
	ValueU         float64         `json:"value_u"`
	Calculations   json.RawMessage `json:"calculations,omitempty"`
}

// DoorRoomAssociation links a door to an enclosure and its assigned wall.
type DoorRoomAssociation struct {
	EnclosureID     int     `json:"enclosure_id"`
	WallID          int     `json:"wall_id"`
	Characteristics string  `json:"characteristics"`
	Azimuth         string  `json:"azimuth"`
	Area            float64 `json:"area"`
}

// HTTPCalcClient talks to the calc backend over its REST API, authenticating
// with OAuth2 client credentials.
type HTTPCalcClient struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
}

// NewHTTPCalcClient builds the production client from environment settings
// (CALC_API_URL, CALC_API_CLIENT_ID, CALC_API_CLIENT_SECRET, CALC_API_TOKEN_URL).
func NewHTTPCalcClient() (*HTTPCalcClient, error) {
	baseURL := os.Getenv("CALC_API_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("CALC_API_URL is required")
	}

	config := &clientcredentials.Config{
		ClientID:     os.Getenv("CALC_API_CLIENT_ID"),
		ClientSecret: os.Getenv("CALC_API_CLIENT_SECRET"),
		TokenURL:     os.Getenv("CALC_API_TOKEN_URL"),
	}

	return &HTTPCalcClient{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		tokenSource: config.TokenSource(context.Background()),
	}, nil
}

func (c *HTTPCalcClient) doJSON(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error marshaling payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("error getting OAuth token: %v", err)
	}
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("calc backend returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("error parsing response: %v", err)
		}
	}
	return nil
}

func (c *HTTPCalcClient) GetEnclosureTyping(ctx context.Context, code string) (*models.EnclosureTyping, error) {
	var typings []models.EnclosureTyping
	path := "/enclosure-typologies?code=" + url.QueryEscape(code)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &typings); err != nil {
		return nil, err
	}
	if len(typings) == 0 {
		return nil, nil
	}
	return &typings[0], nil
}

func (c *HTTPCalcClient) CreateEnclosure(ctx context.Context, req EnclosureCreateRequest) (int, error) {
	var created struct {
		ID int `json:"id"`
	}
	path := fmt.Sprintf("/projects/%d/enclosures", req.ProjectID)
	if err := c.doJSON(ctx, http.MethodPost, path, req, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *HTTPCalcClient) CreateWallMaster(ctx context.Context, req WallMasterRequest) (int, error) {
	var created struct {
		ID int `json:"id"`
	}
	path := fmt.Sprintf("/projects/%d/wall-details", req.ProjectID)
	if err := c.doJSON(ctx, http.MethodPost, path, req, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *HTTPCalcClient) CreateWallLayer(ctx context.Context, req WallLayerRequest) error {
	path := fmt.Sprintf("/wall-details/%d/layers", req.MasterID)
	return c.doJSON(ctx, http.MethodPost, path, req, nil)
}

func (c *HTTPCalcClient) GetMaterialByCode(ctx context.Context, code string) (*models.Material, error) {
	var materials []models.Material
	path := "/constructive-materials?code=" + url.QueryEscape(code)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &materials); err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return nil, nil
	}
	return &materials[0], nil
}

func (c *HTTPCalcClient) AssociateWallRoom(ctx context.Context, req WallRoomAssociation) error {
	path := fmt.Sprintf("/enclosures/%d/walls", req.EnclosureID)
	return c.doJSON(ctx, http.MethodPost, path, req, nil)
}

func (c *HTTPCalcClient) GetFloorDetails(ctx context.Context, projectID int) ([]models.FloorDetail, error) {
	var details []models.FloorDetail
	path := fmt.Sprintf("/projects/%d/floor-details", projectID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &details); err != nil {
		return nil, err
	}
	return details, nil
}

func (c *HTTPCalcClient) AssociateFloorRoom(ctx context.Context, req FloorRoomAssociation) error {
	path := fmt.Sprintf("/enclosures/%d/floors", req.EnclosureID)
	return c.doJSON(ctx, http.MethodPost, path, req, nil)
}

func (c *HTTPCalcClient) AssociateDoorRoom(ctx context.Context, req DoorRoomAssociation) error {
	path := fmt.Sprintf("/enclosures/%d/doors", req.EnclosureID)
	return c.doJSON(ctx, http.MethodPost, path, req, nil)
}

func (c *HTTPCalcClient) UpdateProjectStatus(ctx context.Context, projectID int, status string) error {
	path := fmt.Sprintf("/projects/%d/status", projectID)
	return c.doJSON(ctx, http.MethodPut, path, map[string]string{"status": status}, nil)
}
