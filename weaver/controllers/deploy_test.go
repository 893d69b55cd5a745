package controllers

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"weaver/weaver/apperrors"
	"weaver/weaver/sources/psql/dao"
	"weaver/weaver/sources/psql/models"
	"weaver/weaver/utils/types"
)

func newTestDAO(t *testing.T) *dao.DeploymentDAO {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Deployment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dao.NewDeploymentDAO(db)
}

func deployRequest() types.DeployRequest {
	return types.DeployRequest{
		UserID: "user-1",
		Schema: &types.JSONSchema{
			Type:       "object",
			Properties: map[string]types.PropertySpec{"price": {Type: "number"}},
		},
		ExtractedData: types.ExtractedRecord{"price": 128.44, "symbol": "NVDA"},
		Name:          "Latest Nvidia Stocks-api",
		Query:         "Latest Nvidia Stocks",
		URLs:          []string{"https://finance.example.com/nvda"},
	}
}

func countDeployments(t *testing.T, d *dao.DeploymentDAO) int64 {
	t.Helper()
	var count int64
	if err := d.DB.Model(&models.Deployment{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func TestDeployValidation(t *testing.T) {
	d := newTestDAO(t)
	ctrl := NewDeployController(d, "http://localhost:8000")

	cases := map[string]func(*types.DeployRequest){
		"missing user":   func(r *types.DeployRequest) { r.UserID = "" },
		"missing name":   func(r *types.DeployRequest) { r.Name = "" },
		"missing query":  func(r *types.DeployRequest) { r.Query = "" },
		"no urls":        func(r *types.DeployRequest) { r.URLs = nil },
		"nil schema":     func(r *types.DeployRequest) { r.Schema = nil },
		"nil data":       func(r *types.DeployRequest) { r.ExtractedData = nil },
		"symbolic name":  func(r *types.DeployRequest) { r.Name = "!!!" },
	}
	for label, mutate := range cases {
		req := deployRequest()
		mutate(&req)
		_, err := ctrl.Deploy(context.Background(), req)
		if !apperrors.Is(err, apperrors.Validation) {
			t.Errorf("%s: err = %v, want Validation", label, err)
		}
	}
	if n := countDeployments(t, d); n != 0 {
		t.Errorf("rows after failed deploys = %d, want 0", n)
	}
}

func TestDeploySuccess(t *testing.T) {
	d := newTestDAO(t)
	ctrl := NewDeployController(d, "http://localhost:8000")

	resp, err := ctrl.Deploy(context.Background(), deployRequest())
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if !resp.Success {
		t.Error("Success = false")
	}
	if resp.Route != "latest-nvidia-stocks-api" {
		t.Errorf("Route = %q, want latest-nvidia-stocks-api", resp.Route)
	}
	wantURL := "http://localhost:8000/api/results/user-1/latest-nvidia-stocks-api"
	if resp.URL != wantURL {
		t.Errorf("URL = %q, want %q", resp.URL, wantURL)
	}
	if !strings.Contains(resp.CurlCommand, wantURL) || !strings.HasPrefix(resp.CurlCommand, "curl -X GET") {
		t.Errorf("CurlCommand = %q", resp.CurlCommand)
	}
	if resp.APIData == nil || resp.APIData.Metadata.Query != "Latest Nvidia Stocks" {
		t.Errorf("APIData = %+v", resp.APIData)
	}
	if n := countDeployments(t, d); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestDeployConflictKeepsFirstRecord(t *testing.T) {
	d := newTestDAO(t)
	ctrl := NewDeployController(d, "http://localhost:8000")

	first := deployRequest()
	if _, err := ctrl.Deploy(context.Background(), first); err != nil {
		t.Fatalf("first Deploy: %v", err)
	}

	second := deployRequest()
	second.ExtractedData = types.ExtractedRecord{"price": 999.99}
	_, err := ctrl.Deploy(context.Background(), second)
	if !apperrors.Is(err, apperrors.Conflict) {
		t.Fatalf("second Deploy err = %v, want Conflict", err)
	}
	if err.Error() != "API endpoint with this name already exists" {
		t.Errorf("message = %q", err.Error())
	}

	dep, err := d.GetByKey(context.Background(), dao.StorageKey("user-1", "latest-nvidia-stocks-api"))
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	record, err := DecodeRecord(dep.Payload)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if record.Data["symbol"] != "NVDA" {
		t.Errorf("first record was overwritten: %v", record.Data)
	}
	if n := countDeployments(t, d); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestListEndpoints(t *testing.T) {
	d := newTestDAO(t)
	ctrl := NewDeployController(d, "http://localhost:8000")

	if _, err := ctrl.Deploy(context.Background(), deployRequest()); err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	// A row whose payload predates the record format
	if _, err := d.Create(context.Background(), "user-1", "legacy", `{"weird":"shape"}`); err != nil {
		t.Fatalf("Create: %v", err)
	}

	endpoints, err := ctrl.ListEndpoints(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListEndpoints: %v", err)
	}
	if len(endpoints) != 2 {
		t.Fatalf("len = %d, want 2", len(endpoints))
	}
	byName := map[string]types.EndpointSummary{}
	for _, e := range endpoints {
		byName[e.Endpoint] = e
	}
	if e := byName["latest-nvidia-stocks-api"]; e.Query != "Latest Nvidia Stocks" {
		t.Errorf("query = %q", e.Query)
	}
	if e := byName["legacy"]; e.Query != "Unknown query" || e.LastUpdated != "Unknown date" {
		t.Errorf("legacy row fallbacks: %+v", e)
	}

	if _, err := ctrl.ListEndpoints(context.Background(), ""); !apperrors.Is(err, apperrors.Validation) {
		t.Errorf("empty user err = %v, want Validation", err)
	}
}

func TestGetEndpoint(t *testing.T) {
	d := newTestDAO(t)
	ctrl := NewDeployController(d, "http://localhost:8000")

	if _, err := ctrl.Deploy(context.Background(), deployRequest()); err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	resp, err := ctrl.GetEndpoint(context.Background(), "user-1", "latest-nvidia-stocks-api")
	if err != nil {
		t.Fatalf("GetEndpoint: %v", err)
	}
	if !resp.Success || resp.Data == nil || resp.Data.Metadata.Query != "Latest Nvidia Stocks" {
		t.Errorf("resp = %+v", resp)
	}

	if _, err := ctrl.GetEndpoint(context.Background(), "user-1", "nope"); !apperrors.Is(err, apperrors.NotFound) {
		t.Errorf("missing endpoint err = %v, want NotFound", err)
	}
}

func TestDecodeRecordDoubleEncoded(t *testing.T) {
	record := types.DeploymentRecord{
		Data:     types.ExtractedRecord{"price": 128.44},
		Metadata: types.RecordMetadata{Query: "q"},
	}
	plain := `{"data":{"price":128.44},"metadata":{"query":"q","schema":{"type":"","properties":null},"sources":null,"lastUpdated":""},"config":{"urls":null,"query":"","schema":{"type":"","properties":null},"createdAt":"","updatedAt":""}}`

	got, err := DecodeRecord(plain)
	if err != nil {
		t.Fatalf("DecodeRecord plain: %v", err)
	}
	if !reflect.DeepEqual(got.Data, record.Data) {
		t.Errorf("plain data = %v", got.Data)
	}

	doubled := `"{\"data\":{\"price\":128.44},\"metadata\":{\"query\":\"q\"},\"config\":{}}"`
	got, err = DecodeRecord(doubled)
	if err != nil {
		t.Fatalf("DecodeRecord doubled: %v", err)
	}
	if got.Metadata.Query != "q" || !reflect.DeepEqual(got.Data, record.Data) {
		t.Errorf("doubled record = %+v", got)
	}
}
