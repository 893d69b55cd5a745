package types

// RecordMetadata travels with every deployed record and feeds the endpoint
// listing surface.
type RecordMetadata struct {
	Query       string     `json:"query"`
	Schema      JSONSchema `json:"schema"`
	Sources     []string   `json:"sources"`
	LastUpdated string     `json:"lastUpdated"`
}

// RecordConfig snapshots the deploy-time inputs.
type RecordConfig struct {
	URLs      []string   `json:"urls"`
	Query     string     `json:"query"`
	Schema    JSONSchema `json:"schema"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
}

// DeploymentRecord is the unit of durable state, written exactly once at
// deployment time and never mutated afterwards.
type DeploymentRecord struct {
	Data     ExtractedRecord `json:"data"`
	Metadata RecordMetadata  `json:"metadata"`
	Config   RecordConfig    `json:"config"`
}

type DeployRequest struct {
	UserID        string          `json:"userId"`
	Schema        *JSONSchema     `json:"schema"`
	ExtractedData ExtractedRecord `json:"extractedData"`
	Name          string          `json:"name"`
	Query         string          `json:"query"`
	URLs          []string        `json:"urls"`
}

type DeployResponse struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Route       string            `json:"route"`
	URL         string            `json:"url"`
	CurlCommand string            `json:"curlCommand"`
	APIData     *DeploymentRecord `json:"apiData"`
}

// EndpointSummary is one row of the endpoint listing.
type EndpointSummary struct {
	Endpoint    string `json:"endpoint"`
	Name        string `json:"name"`
	Query       string `json:"query"`
	LastUpdated string `json:"lastUpdated"`
	URL         string `json:"url"`
}

type EndpointListResponse struct {
	Success   bool              `json:"success"`
	Endpoints []EndpointSummary `json:"endpoints"`
}

type EndpointGetResponse struct {
	Success bool              `json:"success"`
	Data    *DeploymentRecord `json:"data"`
	URL     string            `json:"url"`
}
