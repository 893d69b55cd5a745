package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"weaver/weaver/apperrors"
	"weaver/weaver/sources/psql/dao"
	"weaver/weaver/utils/logging"
	"weaver/weaver/utils/slug"
	"weaver/weaver/utils/types"
)

// DeployController persists named snapshots of extracted data and serves
// the endpoint listing surface.
type DeployController struct {
	deployDAO *dao.DeploymentDAO
	baseURL   string
}

func NewDeployController(deployDAO *dao.DeploymentDAO, baseURL string) *DeployController {
	return &DeployController{deployDAO: deployDAO, baseURL: baseURL}
}

// Deploy writes exactly one record on success and nothing on any failure
// path. It is not idempotent: an existing slug is rejected, never
// overwritten.
func (c *DeployController) Deploy(ctx context.Context, req types.DeployRequest) (*types.DeployResponse, error) {
	defer logging.LogDuration(ctx, "deploy_endpoint")()

	if req.UserID == "" {
		return nil, apperrors.New(apperrors.Validation, "User ID is required")
	}
	if req.Name == "" {
		return nil, apperrors.New(apperrors.Validation, "API name is required")
	}
	if req.Query == "" {
		return nil, apperrors.New(apperrors.Validation, "Query is required")
	}
	if len(req.URLs) == 0 {
		return nil, apperrors.New(apperrors.Validation, "At least one URL is required")
	}
	if req.Schema == nil || req.ExtractedData == nil {
		return nil, apperrors.New(apperrors.Validation, "Schema and extracted data are required")
	}

	route := slug.Make(req.Name)
	if route == "" {
		return nil, apperrors.New(apperrors.Validation, "API name must contain letters or numbers")
	}

	// Advisory pre-check for the friendly error; the unique index on the
	// storage key is what actually closes the race.
	exists, err := c.deployDAO.ExistsKey(ctx, dao.StorageKey(req.UserID, route))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to deploy endpoint due to database error", err)
	}
	if exists {
		return nil, apperrors.New(apperrors.Conflict, "API endpoint with this name already exists")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	record := types.DeploymentRecord{
		Data: req.ExtractedData,
		Metadata: types.RecordMetadata{
			Query:       req.Query,
			Schema:      *req.Schema,
			Sources:     req.URLs,
			LastUpdated: now,
		},
		Config: types.RecordConfig{
			URLs:      req.URLs,
			Query:     req.Query,
			Schema:    *req.Schema,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to serialize deployment record", err)
	}

	if _, err := c.deployDAO.Create(ctx, req.UserID, route, string(payload)); err != nil {
		if apperrors.Is(err, apperrors.Conflict) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to deploy endpoint due to database error", err)
	}

	fullURL := fmt.Sprintf("%s/api/results/%s/%s", c.baseURL, req.UserID, route)

	return &types.DeployResponse{
		Success:     true,
		Message:     "API endpoint deployed successfully",
		Route:       route,
		URL:         fullURL,
		CurlCommand: fmt.Sprintf("curl -X GET \"%s\" \\\n  -H \"Content-Type: application/json\"", fullURL),
		APIData:     &record,
	}, nil
}

// ListEndpoints returns the listing rows for every endpoint userID has
// deployed, newest first.
func (c *DeployController) ListEndpoints(ctx context.Context, userID string) ([]types.EndpointSummary, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.Validation, "User ID is required")
	}

	deps, err := c.deployDAO.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to fetch API endpoints", err)
	}

	endpoints := make([]types.EndpointSummary, 0, len(deps))
	for _, dep := range deps {
		summary := types.EndpointSummary{
			Endpoint:    dep.Slug,
			Name:        dep.Slug,
			Query:       "Unknown query",
			LastUpdated: "Unknown date",
			URL:         fmt.Sprintf("/api/results/%s/%s", userID, dep.Slug),
		}
		if record, err := DecodeRecord(dep.Payload); err == nil {
			if record.Metadata.Query != "" {
				summary.Query = record.Metadata.Query
			}
			if record.Metadata.LastUpdated != "" {
				summary.LastUpdated = record.Metadata.LastUpdated
			}
		}
		endpoints = append(endpoints, summary)
	}
	return endpoints, nil
}

// GetEndpoint returns the full stored record for one endpoint, used by the
// authenticated internal lookup (the public read path only exposes data).
func (c *DeployController) GetEndpoint(ctx context.Context, userID, endpoint string) (*types.EndpointGetResponse, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.Validation, "User ID is required")
	}
	if endpoint == "" {
		return nil, apperrors.New(apperrors.Validation, "Endpoint name is required")
	}

	dep, err := c.deployDAO.GetByKey(ctx, dao.StorageKey(userID, endpoint))
	if err != nil {
		if apperrors.Is(err, apperrors.NotFound) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to fetch API endpoint", err)
	}

	record, err := DecodeRecord(dep.Payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to fetch API endpoint", err)
	}

	return &types.EndpointGetResponse{
		Success: true,
		Data:    record,
		URL:     fmt.Sprintf("/api/results/%s/%s", userID, endpoint),
	}, nil
}

// DecodeRecord decodes a stored payload. Compatibility shim for the two
// store-client behaviors: the payload is usually the serialized record, but
// may itself arrive double-encoded as a JSON string containing the record.
func DecodeRecord(payload string) (*types.DeploymentRecord, error) {
	var inner string
	if err := json.Unmarshal([]byte(payload), &inner); err == nil {
		payload = inner
	}
	var record types.DeploymentRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, err
	}
	return &record, nil
}
