package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"legalrag-backend/config"
	"legalrag-backend/extraction"
	"legalrag-backend/models"
	"legalrag-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	summaryWords = 500
	pageChars    = extraction.PageChars
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrFileTooLarge      = errors.New("file exceeds the maximum document size")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyText         = errors.New("no text extracted from document")
	ErrInvalidMetadata   = errors.New("invalid metadata override")
)

// IngestionService turns files on disk into stored documents
type IngestionService struct {
	store       DocumentStore
	archive     storage.Archive
	jobs        JobLedger
	sourceFiles SourceFileLedger
	cfg         config.IngestionConfig
	extractor   *extraction.Extractor
	logger      *zap.Logger
	metrics     *Metrics
}

// IngestionServiceOption is a functional option for IngestionService
type IngestionServiceOption func(*IngestionService)

// IngestWithStore sets the document store
func IngestWithStore(store DocumentStore) IngestionServiceOption {
	return func(s *IngestionService) {
		s.store = store
	}
}

// IngestWithArchive sets the archive for original files
func IngestWithArchive(archive storage.Archive) IngestionServiceOption {
	return func(s *IngestionService) {
		s.archive = archive
	}
}

// IngestWithJobLedger sets the ingestion job ledger
func IngestWithJobLedger(jobs JobLedger) IngestionServiceOption {
	return func(s *IngestionService) {
		s.jobs = jobs
	}
}

// IngestWithSourceFileLedger sets the source file ledger
func IngestWithSourceFileLedger(files SourceFileLedger) IngestionServiceOption {
	return func(s *IngestionService) {
		s.sourceFiles = files
	}
}

// IngestWithConfig sets size limits, formats and vocabularies
func IngestWithConfig(cfg config.IngestionConfig) IngestionServiceOption {
	return func(s *IngestionService) {
		s.cfg = cfg
	}
}

// IngestWithLogger sets the logger
func IngestWithLogger(logger *zap.Logger) IngestionServiceOption {
	return func(s *IngestionService) {
		s.logger = logger
	}
}

// IngestWithMetrics sets the metrics sink
func IngestWithMetrics(m *Metrics) IngestionServiceOption {
	return func(s *IngestionService) {
		s.metrics = m
	}
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(opts ...IngestionServiceOption) *IngestionService {
	s := &IngestionService{
		cfg:    config.Default().Ingestion,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.extractor = extraction.NewExtractor(extraction.WithDefaultPracticeArea(s.cfg.DefaultPracticeArea))
	return s
}

// ProcessDocumentRequest represents a request to ingest one file
type ProcessDocumentRequest struct {
	Path     string
	Metadata map[string]interface{} // overrides applied after extraction
	// SourceName is recorded as the file path instead of Path when Path is a
	// scratch copy that will not outlive the request
	SourceName string
}

// ProcessDocumentResult represents the result of ingesting one file
type ProcessDocumentResult struct {
	DocumentID      string `json:"document_id"`
	Title           string `json:"title"`
	Sections        int    `json:"sections"`
	SectionsFailed  int    `json:"sections_failed"`
	Citations       int    `json:"citations"`
	CitationsFailed int    `json:"citations_failed"`
	StoragePath     string `json:"storage_path,omitempty"`
}

// ProcessDocument validates, extracts, classifies and stores one file.
// Gate failures return before anything is written. Once the document is
// stored, section and citation failures are logged and counted only.
func (s *IngestionService) ProcessDocument(ctx context.Context, req ProcessDocumentRequest) (*ProcessDocumentResult, error) {
	if s.store == nil {
		return nil, errors.New("document store not set")
	}
	log := s.logger.With(zap.String("path", req.Path))

	info, err := s.checkFile(req.Path)
	if err != nil {
		s.metrics.documentOutcome("rejected")
		log.Warn("Document rejected", zap.Error(err))
		return nil, err
	}

	raw, err := extraction.ExtractText(req.Path)
	if err != nil {
		s.metrics.documentOutcome("empty")
		log.Warn("Text extraction failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrEmptyText, req.Path, err)
	}
	text := extraction.CleanText(raw)
	if strings.TrimSpace(text) == "" {
		s.metrics.documentOutcome("empty")
		log.Warn("No text extracted")
		return nil, fmt.Errorf("%w: %s", ErrEmptyText, req.Path)
	}

	filename := filepath.Base(req.Path)
	meta := s.extractor.Extract(text, filename)

	doc := &models.LegalDocument{
		Title:                titleFromFilename(filename),
		Content:              text,
		Summary:              summarize(text),
		DocumentType:         meta.DocumentType,
		CaseNumber:           models.UnknownCaseNumber,
		Court:                meta.Court,
		Jurisdiction:         meta.Jurisdiction,
		Parties:              meta.Parties,
		Date:                 documentDate(meta.Dates, info.ModTime()),
		FilePath:             req.recordedPath(),
		PageCount:            max(1, len(text)/pageChars),
		PracticeArea:         meta.PracticeAreas,
		Citations:            meta.Citations,
		ConfidentialityLevel: meta.Confidentiality,
	}
	if meta.CaseNumber != nil {
		doc.CaseNumber = *meta.CaseNumber
	}
	if err := applyOverrides(doc, req.Metadata, s.cfg.ConfidentialityLevels); err != nil {
		s.metrics.documentOutcome("rejected")
		return nil, err
	}
	if len(doc.PracticeArea) == 0 {
		doc.PracticeArea = []string{s.cfg.DefaultPracticeArea}
	}

	docID, err := s.store.CreateDocument(ctx, doc)
	if err != nil {
		s.metrics.documentOutcome("failed")
		log.Error("Failed to store document", zap.Error(err))
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	result := &ProcessDocumentResult{DocumentID: docID, Title: doc.Title}
	s.storeSections(ctx, log, docID, text, result)
	s.storeCitations(ctx, log, docID, doc.Citations, result)
	result.StoragePath = s.archiveSource(ctx, log, docID, req.Path, info.Size())

	s.metrics.documentOutcome("stored")
	log.Info("Document processed",
		zap.String("document_id", docID),
		zap.String("document_type", string(doc.DocumentType)),
		zap.Int("sections", result.Sections),
		zap.Int("citations", result.Citations),
	)
	return result, nil
}

func (r ProcessDocumentRequest) recordedPath() string {
	if r.SourceName != "" {
		return r.SourceName
	}
	return r.Path
}

func (s *IngestionService) checkFile(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	limit := int64(s.cfg.MaxDocumentSizeMB * 1024 * 1024)
	if info.Size() > limit {
		return nil, fmt.Errorf("%w: %s is %.2f MB, limit %.2f MB",
			ErrFileTooLarge, path, float64(info.Size())/(1024*1024), s.cfg.MaxDocumentSizeMB)
	}

	if !s.supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return info, nil
}

func (s *IngestionService) supported(path string) bool {
	return slices.Contains(s.cfg.SupportedFormats, extraction.Format(path))
}

func (s *IngestionService) storeSections(ctx context.Context, log *zap.Logger, docID, text string, result *ProcessDocumentResult) {
	for sec := range extraction.Sections(text) {
		section := &models.DocumentSection{
			Content:          sec.Content,
			SectionTitle:     sec.Title,
			PageNumber:       sec.PageNumber,
			SectionNumber:    sec.SectionNumber,
			ParentDocumentID: docID,
		}
		if _, err := s.store.CreateSection(ctx, section); err != nil {
			result.SectionsFailed++
			s.metrics.childFailed("section")
			log.Warn("Failed to store section", zap.String("section", sec.Title), zap.Error(err))
			continue
		}
		result.Sections++
	}
}

func (s *IngestionService) storeCitations(ctx context.Context, log *zap.Logger, docID string, citations []string, result *ProcessDocumentResult) {
	for _, text := range citations {
		citation := &models.Citation{CitationText: text, ReferencedBy: []string{docID}}
		if _, err := s.store.CreateCitation(ctx, citation); err != nil {
			result.CitationsFailed++
			s.metrics.childFailed("citation")
			log.Warn("Failed to store citation", zap.String("citation", text), zap.Error(err))
			continue
		}
		result.Citations++
	}
}

// archiveSource copies the original file into the archive and records it.
// It returns the storage path, or "" when archiving is off or failed.
func (s *IngestionService) archiveSource(ctx context.Context, log *zap.Logger, docID, path string, size int64) string {
	if s.archive == nil {
		return ""
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn("Failed to open source for archiving", zap.Error(err))
		return ""
	}
	defer f.Close()

	filename := filepath.Base(path)
	key, err := s.archive.Put(ctx, uuid.New(), filename, f)
	if err != nil {
		log.Warn("Failed to archive source file", zap.Error(err))
		return ""
	}

	if s.sourceFiles != nil {
		record := &models.SourceFile{
			DocumentID:  docID,
			Filename:    filename,
			MimeType:    storage.ContentType(filename),
			Size:        size,
			StoragePath: key,
		}
		if err := s.sourceFiles.Create(ctx, record); err != nil {
			log.Warn("Failed to record archived source file", zap.String("storage_path", key), zap.Error(err))
		}
	}
	return key
}

// ProcessDirectoryRequest represents a request to ingest a directory
type ProcessDirectoryRequest struct {
	Dir       string
	Recursive bool
	Metadata  map[string]interface{}
}

// ProcessDirectoryResult represents the per-file outcome of a directory run
type ProcessDirectoryResult struct {
	JobID       *uuid.UUID          `json:"job_id,omitempty"`
	Outcomes    models.FileOutcomes `json:"outcomes"`
	DocumentIDs []string            `json:"document_ids"`
}

// ProcessDirectory ingests every supported file under Dir, one at a time, in
// lexical order. A failing file is recorded and the batch moves on.
func (s *IngestionService) ProcessDirectory(ctx context.Context, req ProcessDirectoryRequest) (*ProcessDirectoryResult, error) {
	files, err := s.listFiles(req.Dir, req.Recursive)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Found files to process", zap.String("dir", req.Dir), zap.Int("count", len(files)))

	result := &ProcessDirectoryResult{Outcomes: models.FileOutcomes{}, DocumentIDs: []string{}}

	var job *models.IngestionJob
	if s.jobs != nil {
		job = &models.IngestionJob{Source: req.Dir, Recursive: req.Recursive, Outcomes: models.FileOutcomes{}}
		if err := s.jobs.Create(ctx, job); err != nil {
			s.logger.Warn("Failed to record ingestion job", zap.Error(err))
			job = nil
		} else {
			result.JobID = &job.ID
			if err := s.jobs.Start(ctx, job.ID); err != nil {
				s.logger.Warn("Failed to mark ingestion job started", zap.Error(err))
			}
		}
	}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			if job != nil {
				s.failJob(job.ID, err)
			}
			return result, err
		}

		s.logger.Info("Processing file", zap.Int("index", i+1), zap.Int("total", len(files)), zap.String("file", filepath.Base(path)))
		outcome := models.FileOutcome{Path: path}
		res, err := s.ProcessDocument(ctx, ProcessDocumentRequest{Path: path, Metadata: req.Metadata})
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.DocumentID = res.DocumentID
			result.DocumentIDs = append(result.DocumentIDs, res.DocumentID)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if job != nil {
		if err := s.jobs.Complete(ctx, job.ID, result.Outcomes); err != nil {
			s.logger.Warn("Failed to complete ingestion job", zap.Error(err))
		}
	}

	s.logger.Info("Processing complete",
		zap.Int("processed", len(result.DocumentIDs)),
		zap.Int("failed", result.Outcomes.Failed()),
	)
	return result, nil
}

func (s *IngestionService) failJob(id uuid.UUID, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.jobs.Fail(ctx, id, cause.Error()); err != nil {
		s.logger.Warn("Failed to mark ingestion job failed", zap.Error(err))
	}
}

func (s *IngestionService) listFiles(dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && s.supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	return files, nil
}

// DeleteDocument removes a stored document with its sections, then drops any
// archived originals. Archive cleanup failures are logged.
func (s *IngestionService) DeleteDocument(ctx context.Context, documentID string) error {
	if s.store == nil {
		return errors.New("document store not set")
	}
	if err := s.store.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	if s.sourceFiles == nil {
		return nil
	}

	files, err := s.sourceFiles.ListByDocumentID(ctx, documentID)
	if err != nil {
		s.logger.Warn("Failed to list archived files", zap.String("document_id", documentID), zap.Error(err))
		return nil
	}
	if s.archive != nil {
		for _, f := range files {
			if err := s.archive.Delete(ctx, f.StoragePath); err != nil {
				s.logger.Warn("Failed to delete archived file", zap.String("storage_path", f.StoragePath), zap.Error(err))
			}
		}
	}
	if err := s.sourceFiles.DeleteByDocumentID(ctx, documentID); err != nil {
		s.logger.Warn("Failed to delete archived file records", zap.String("document_id", documentID), zap.Error(err))
	}
	return nil
}

// ReprocessDocumentRequest represents a request to re-ingest a stored document
type ReprocessDocumentRequest struct {
	DocumentID string
	Path       string
	Metadata   map[string]interface{}
	SourceName string
}

// ReprocessDocumentResult represents the outcome of a reprocess
type ReprocessDocumentResult struct {
	OldDocumentID string                 `json:"old_document_id"`
	OldDeleted    bool                   `json:"old_deleted"`
	Document      *ProcessDocumentResult `json:"document"`
}

// ReprocessDocument ingests Path again and deletes the old record only after
// the new one is stored, so a failed run leaves the old document intact.
func (s *IngestionService) ReprocessDocument(ctx context.Context, req ReprocessDocumentRequest) (*ReprocessDocumentResult, error) {
	res, err := s.ProcessDocument(ctx, ProcessDocumentRequest{Path: req.Path, Metadata: req.Metadata, SourceName: req.SourceName})
	if err != nil {
		return nil, fmt.Errorf("failed to reprocess document %s: %w", req.DocumentID, err)
	}

	out := &ReprocessDocumentResult{OldDocumentID: req.DocumentID, Document: res}
	if err := s.DeleteDocument(ctx, req.DocumentID); err != nil {
		s.logger.Warn("Reprocessed document but failed to delete the old record",
			zap.String("old_document_id", req.DocumentID),
			zap.String("new_document_id", res.DocumentID),
			zap.Error(err),
		)
		return out, nil
	}
	out.OldDeleted = true
	s.logger.Info("Updated document", zap.String("old_document_id", req.DocumentID), zap.String("new_document_id", res.DocumentID))
	return out, nil
}

// ProcessingStats describes the files under a directory
type ProcessingStats struct {
	TotalFiles     int            `json:"total_files"`
	SupportedFiles int            `json:"supported_files"`
	FileTypes      map[string]int `json:"file_types"`
	TotalSizeMB    float64        `json:"total_size_mb"`
	LargestFile    string         `json:"largest_file,omitempty"`
	LargestSizeMB  float64        `json:"largest_size_mb"`
}

// ProcessingStats counts files by extension and size without ingesting them
func (s *IngestionService) ProcessingStats(dir string, recursive bool) (*ProcessingStats, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	stats := &ProcessingStats{FileTypes: map[string]int{}}
	var totalBytes, largestBytes int64
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}

		stats.TotalFiles++
		totalBytes += fi.Size()
		if fi.Size() > largestBytes {
			largestBytes = fi.Size()
			stats.LargestFile = path
		}
		if s.supported(path) {
			stats.SupportedFiles++
		}
		stats.FileTypes[strings.ToLower(filepath.Ext(path))]++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	stats.TotalSizeMB = roundMB(totalBytes)
	stats.LargestSizeMB = roundMB(largestBytes)
	return stats, nil
}

func roundMB(n int64) float64 {
	return math.Round(float64(n)/(1024*1024)*100) / 100
}

func titleFromFilename(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.ReplaceAll(base, "_", " ")
}

// summarize keeps the first 500 words, suffixed with an ellipsis when cut
func summarize(text string) string {
	words := strings.Fields(text)
	if len(words) <= summaryWords {
		return text
	}
	return strings.Join(words[:summaryWords], " ") + "..."
}

func documentDate(dates []string, modTime time.Time) time.Time {
	if len(dates) > 0 {
		if t, err := extraction.ParseDate(dates[0]); err == nil {
			return t
		}
	}
	return modTime.UTC()
}
