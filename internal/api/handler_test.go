package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/docket/internal/api"
	"github.com/JaimeStill/docket/internal/classifier"
	"github.com/JaimeStill/docket/internal/extraction"
	"github.com/JaimeStill/docket/internal/pipeline"
	"github.com/JaimeStill/docket/internal/taxonomy"
)

type fixedClient struct {
	response string
}

func (c *fixedClient) Complete(ctx context.Context, system, user string) (string, error) {
	return c.response, nil
}

const leaseResponse = `{
	"category": "Contract",
	"subcategory": "Lease Agreement",
	"summary": "A commercial lease between two named parties.",
	"key_themes": ["Five year term", "Monthly rent schedule", "Maintenance obligations"]
}`

func testHandler(t *testing.T, client classifier.Client, maxUpload int64) *api.Handler {
	t.Helper()
	tax, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("load taxonomy: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := &pipeline.Runtime{
		Extractor:  extraction.New(5, logger),
		Classifier: classifier.New(client, tax, logger),
		Logger:     logger,
	}
	return api.NewHandler(rt, tax, logger, maxUpload)
}

func multipartUpload(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestClassifySuccess(t *testing.T) {
	h := testHandler(t, &fixedClient{response: leaseResponse}, 1<<20)

	body, contentType := multipartUpload(t, "file", map[string]string{
		"lease.txt": "this lease agreement is made between landlord and tenant",
	})
	req := httptest.NewRequest("POST", "/documents/classify", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Classify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var run pipeline.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if run.Name != "lease.txt" {
		t.Errorf("name: got %q", run.Name)
	}
	if run.Result == nil || run.Result.Category != "Contract" {
		t.Errorf("result: got %+v", run.Result)
	}
}

func TestClassifyMissingFile(t *testing.T) {
	h := testHandler(t, &fixedClient{response: leaseResponse}, 1<<20)

	body, contentType := multipartUpload(t, "other", map[string]string{"x.txt": "text"})
	req := httptest.NewRequest("POST", "/documents/classify", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Classify(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestClassifyUnsupportedType(t *testing.T) {
	h := testHandler(t, &fixedClient{response: leaseResponse}, 1<<20)

	body, contentType := multipartUpload(t, "file", map[string]string{"contract.docx": "binary"})
	req := httptest.NewRequest("POST", "/documents/classify", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Classify(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestClassifyUploadTooLarge(t *testing.T) {
	h := testHandler(t, &fixedClient{response: leaseResponse}, 64)

	body, contentType := multipartUpload(t, "file", map[string]string{
		"lease.txt": strings.Repeat("word ", 1000),
	})
	req := httptest.NewRequest("POST", "/documents/classify", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Classify(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestClassifyCorruptPDF(t *testing.T) {
	h := testHandler(t, &fixedClient{response: leaseResponse}, 1<<20)

	body, contentType := multipartUpload(t, "file", map[string]string{
		"bad.pdf": "this is not a pdf document",
	})
	req := httptest.NewRequest("POST", "/documents/classify", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Classify(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestClassifyBadGatewayOnModelPoison(t *testing.T) {
	h := testHandler(t, &fixedClient{response: "not json at all"}, 1<<20)

	body, contentType := multipartUpload(t, "file", map[string]string{"lease.txt": "text"})
	req := httptest.NewRequest("POST", "/documents/classify", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Classify(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestClassifyBatchMixedResults(t *testing.T) {
	h := testHandler(t, &fixedClient{response: leaseResponse}, 1<<20)

	body, contentType := multipartUpload(t, "files", map[string]string{
		"a.txt":  "a lease between parties",
		"b.docx": "unsupported",
	})
	req := httptest.NewRequest("POST", "/documents/classify/batch", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.ClassifyBatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var items []pipeline.BatchItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items: got %d, want 2", len(items))
	}

	byName := make(map[string]pipeline.BatchItem, len(items))
	for _, item := range items {
		byName[item.Name] = item
	}

	if item := byName["a.txt"]; item.Error != "" || item.Result == nil {
		t.Errorf("a.txt should succeed: %+v", item)
	}
	if item := byName["b.docx"]; item.Error == "" {
		t.Errorf("b.docx should fail: %+v", item)
	}
}

func TestClassifyBatchPreservesUploadOrder(t *testing.T) {
	h := testHandler(t, &fixedClient{response: leaseResponse}, 1<<20)

	// Parts written in a fixed order, with an unreadable file in the
	// middle: the response must keep upload order regardless.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, file := range [][2]string{
		{"a.txt", "a lease between parties"},
		{"b.docx", "unsupported"},
		{"c.txt", "another lease between parties"},
	} {
		part, err := w.CreateFormFile("files", file[0])
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(file[1])); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/documents/classify/batch", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.ClassifyBatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var items []pipeline.BatchItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items: got %d, want 3", len(items))
	}

	want := []string{"a.txt", "b.docx", "c.txt"}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("item %d: got %q, want %q", i, items[i].Name, name)
		}
	}
	if items[1].Error == "" {
		t.Errorf("b.docx should fail: %+v", items[1])
	}
	if items[0].Error != "" || items[2].Error != "" {
		t.Errorf("text uploads should succeed: %+v, %+v", items[0], items[2])
	}
}

func TestClassifyBatchMissingFiles(t *testing.T) {
	h := testHandler(t, &fixedClient{response: leaseResponse}, 1<<20)

	body, contentType := multipartUpload(t, "other", map[string]string{"x.txt": "text"})
	req := httptest.NewRequest("POST", "/documents/classify/batch", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.ClassifyBatch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestTaxonomyListing(t *testing.T) {
	h := testHandler(t, &fixedClient{response: leaseResponse}, 1<<20)

	req := httptest.NewRequest("GET", "/taxonomy", nil)
	rec := httptest.NewRecorder()

	h.Taxonomy(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var listing []struct {
		Name          string   `json:"name"`
		Subcategories []string `json:"subcategories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listing) == 0 {
		t.Fatal("empty taxonomy listing")
	}
	if listing[0].Name != "Contract" {
		t.Errorf("first category: got %q", listing[0].Name)
	}
	if len(listing[0].Subcategories) == 0 {
		t.Error("no subcategories in listing")
	}
}
