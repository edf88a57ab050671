package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/template"
)

const maxErrorBody = 4 << 10

var ErrRenderFailed = errors.New("document render failed")

type renderContact struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type renderRequest struct {
	TemplateID  string        `json:"template_id,omitempty"`
	Contact     renderContact `json:"contact"`
	Measurement float64       `json:"measurement"`
}

// RenderClient asks the PDF render service for a quote document.
type RenderClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRenderClient(baseURL string, timeout time.Duration) *RenderClient {
	return &RenderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Render returns the PDF bytes. A non-2xx answer is an error carrying the
// service's message, e.g. "no template".
func (c *RenderClient) Render(ctx context.Context, templateID string, contact *models.Contact, measurement float64) ([]byte, error) {
	firstName, lastName := template.SplitName(contact.Name)

	payload, err := json.Marshal(renderRequest{
		TemplateID: templateID,
		Contact: renderContact{
			Name:      contact.Name,
			FirstName: firstName,
			LastName:  lastName,
			Email:     contact.Email,
			Phone:     contact.Phone,
			Address:   contact.Address,
		},
		Measurement: measurement,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create render request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		message := strings.TrimSpace(string(body))
		if message == "" {
			message = resp.Status
		}

		return nil, fmt.Errorf("%w: %s", ErrRenderFailed, message)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered document: %w", err)
	}

	return pdf, nil
}
