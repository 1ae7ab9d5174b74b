package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestService represents a service line in the API
type TestService struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Priority  string  `json:"priority"`
	Mandatory bool    `json:"mandatory"`
}

// TestRug represents a rug estimate in the API
type TestRug struct {
	ID       string        `json:"id"`
	JobID    string        `json:"jobId"`
	Status   string        `json:"status"`
	Services []TestService `json:"services"`
	Subtotal float64       `json:"subtotal"`
}

// TestQuote represents the response from the quote and approve endpoints
type TestQuote struct {
	GrandTotal    float64 `json:"grandTotal"`
	SelectedCount int     `json:"selectedCount"`
}

const testLetter = `Dear client,

ESTIMATE OF SERVICES
- Deep Cleaning: $150.00
- Fringe Repair: $95.00
- Moth Treatment: $60.00
TOTAL ESTIMATE: $305.00

Sincerely,
The Workshop`

type apiClient struct {
	t       *testing.T
	baseURL string
	http    *http.Client
}

func (c *apiClient) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

// TestEstimateAPI runs the estimate workflow against a running server
func TestEstimateAPI(t *testing.T) {
	// Configure base URL from the environment; skip when no server is available
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		t.Skip("API_BASE_URL not set, skipping integration tests")
	}

	client := &apiClient{
		t:       t,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	jobID := fmt.Sprintf("it-job-%d", time.Now().UnixNano())

	var rug TestRug

	t.Run("CreateRug", func(t *testing.T) {
		resp, data := client.do(http.MethodPost, "/rugs", map[string]any{
			"jobId":       jobID,
			"rugLabel":    "Integration Persian",
			"reportText":  testLetter,
			"annotations": []map[string]any{{"photoIndex": 0, "annotations": []map[string]any{{"x": 10, "y": 20}}}},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
		require.NoError(t, json.Unmarshal(data, &rug))

		assert.Equal(t, jobID, rug.JobID)
		assert.Equal(t, "draft", rug.Status)
		require.Len(t, rug.Services, 3)
		assert.Equal(t, 305.0, rug.Subtotal)
		assert.True(t, rug.Services[0].Mandatory)
	})

	t.Run("GetAnnotations", func(t *testing.T) {
		resp, data := client.do(http.MethodGet, "/rugs/"+rug.ID+"/photos/0/annotations", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(data), "Issue 1")
	})

	t.Run("Quote", func(t *testing.T) {
		resp, data := client.do(http.MethodPost, "/jobs/"+jobID+"/quote", map[string]any{
			"selections": map[string][]string{rug.ID: {}},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

		var quote TestQuote
		require.NoError(t, json.Unmarshal(data, &quote))
		assert.Equal(t, 150.0, quote.GrandTotal)
		assert.Equal(t, 1, quote.SelectedCount)
	})

	t.Run("Approve", func(t *testing.T) {
		resp, data := client.do(http.MethodPost, "/jobs/"+jobID+"/approve", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

		resp, _ = client.do(http.MethodPost, "/jobs/"+jobID+"/approve", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Export", func(t *testing.T) {
		resp, data := client.do(http.MethodGet, "/jobs/"+jobID+"/export", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, bytes.HasPrefix(data, []byte("PK")))
	})

	t.Run("NotFound", func(t *testing.T) {
		resp, _ := client.do(http.MethodGet, "/rugs/does-not-exist", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
