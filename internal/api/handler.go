package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/JaimeStill/docket/internal/classifier"
	"github.com/JaimeStill/docket/internal/extraction"
	"github.com/JaimeStill/docket/internal/pipeline"
	"github.com/JaimeStill/docket/internal/taxonomy"
	"github.com/JaimeStill/docket/pkg/formatting"
	"github.com/JaimeStill/docket/pkg/handlers"
)

// ErrFileTooLarge signals an upload exceeding the configured size limit.
var ErrFileTooLarge = errors.New("uploaded file exceeds size limit")

// Handler provides HTTP endpoints for document classification.
type Handler struct {
	rt            *pipeline.Runtime
	tax           *taxonomy.Taxonomy
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler bound to a pipeline runtime.
func NewHandler(rt *pipeline.Runtime, tax *taxonomy.Taxonomy, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		rt:            rt,
		tax:           tax,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Classify processes a single multipart file upload and responds with the
// pipeline's RunResult.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	if ok := h.parseUpload(w, r); !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	doc, err := readDocument(file, header)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.logger.Info(
		"classify upload",
		"name", doc.Name,
		"size", formatting.FormatBytes(int64(len(doc.Data)), 1),
	)

	run, err := pipeline.Run(r.Context(), h.rt, doc)
	if err != nil {
		handlers.RespondError(w, h.logger, mapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, run)
}

// ClassifyBatch processes multiple uploads under the "files" field. Each
// file reports success or failure independently; a failing file never
// aborts the rest of the batch.
func (h *Handler) ClassifyBatch(w http.ResponseWriter, r *http.Request) {
	if ok := h.parseUpload(w, r); !ok {
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("missing files field"))
		return
	}

	// One slot per upload so the response preserves upload order even
	// when some files fail to open or read.
	headers := r.MultipartForm.File["files"]
	items := make([]pipeline.BatchItem, len(headers))

	var docs []pipeline.Document
	var slots []int
	for i, header := range headers {
		doc, err := openDocument(header)
		if err != nil {
			items[i] = pipeline.BatchItem{Name: header.Filename, Error: err.Error()}
			continue
		}
		docs = append(docs, doc)
		slots = append(slots, i)
	}

	for j, item := range pipeline.RunBatch(r.Context(), h.rt, docs) {
		items[slots[j]] = item
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Taxonomy responds with the category and subcategory listing, in
// definition order.
func (h *Handler) Taxonomy(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name          string   `json:"name"`
		Description   string   `json:"description"`
		Subcategories []string `json:"subcategories"`
	}

	var listing []entry
	for _, name := range h.tax.Categories() {
		listing = append(listing, entry{
			Name:          name,
			Description:   h.tax.Description(name),
			Subcategories: h.tax.Subcategories(name),
		})
	}

	handlers.RespondJSON(w, http.StatusOK, listing)
}

// parseUpload bounds the request body at the configured upload limit and
// parses the multipart form, writing the error response itself when
// either fails. Returns false when the caller should stop.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, fmt.Errorf(
				"%w: limit %s", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 0),
			))
		} else {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("parse multipart form: %w", err))
		}
		return false
	}

	return true
}

func readDocument(file multipart.File, header *multipart.FileHeader) (pipeline.Document, error) {
	kind, err := extraction.KindFromName(header.Filename)
	if err != nil {
		return pipeline.Document{}, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}

	return pipeline.Document{Name: header.Filename, Data: data, Kind: kind}, nil
}

func openDocument(header *multipart.FileHeader) (pipeline.Document, error) {
	file, err := header.Open()
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	return readDocument(file, header)
}

func mapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, extraction.ErrExtraction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, classifier.ErrClassification):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
