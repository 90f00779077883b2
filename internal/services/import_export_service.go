package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/interview-sim/interview-service/internal/models"
	"github.com/interview-sim/interview-service/internal/repositories"
)

// ImportExportService loads interview questions from CSV or Excel files and
// exports the stored bank back out.
type ImportExportService interface {
	ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error)

	ExportQuestionsToCSV(ctx context.Context, position string) ([]byte, error)
	ExportQuestionsToExcel(ctx context.Context, position string) ([]byte, error)
}

type importExportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:   repo,
		logger: logger,
	}
}

// ===== IMPORT OPERATIONS =====

type ImportResult struct {
	TotalRows     int                     `json:"total_rows"`
	ProcessedRows int                     `json:"processed_rows"`
	SuccessCount  int                     `json:"success_count"`
	ErrorCount    int                     `json:"error_count"`
	Errors        []models.ImportRowError `json:"errors"`
	Questions     []*models.Question      `json:"questions,omitempty"`
	Status        models.ImportStatus     `json:"status"`
}

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename string) (*ImportResult, error) {
	s.logger.Info("Starting question import", "filename", filename)

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, file)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.importRows(ctx, records)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: Excel file has no sheets", ErrEmptyImport)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	return s.importRows(ctx, rows)
}

func (s *importExportService) importRows(ctx context.Context, rows [][]string) (*ImportResult, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", ErrEmptyImport)
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}

	requiredColumns := []string{"position", "question_text"}
	for _, col := range requiredColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, fmt.Errorf("%w: missing required column %q", ErrValidationFailed, col)
		}
	}

	result := &ImportResult{
		TotalRows: len(rows) - 1,
		Status:    models.ImportProcessing,
	}

	// Imported rows without an explicit ordinal are appended after the
	// highest ordinal already stored for their position.
	nextOrdinal := make(map[string]int)

	var questions []*models.Question
	var rowErrors []models.ImportRowError

	for rowIndex, record := range rows[1:] {
		question, errs := s.parseRow(ctx, record, headerMap, rowIndex+2, nextOrdinal)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			result.ErrorCount++
		} else if question != nil {
			questions = append(questions, question)
			result.SuccessCount++
		}
		result.ProcessedRows++
	}

	if len(questions) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
			return nil, fmt.Errorf("failed to save questions: %w", err)
		}
	}

	result.Questions = questions
	result.Errors = rowErrors
	result.Status = models.ImportCompleted

	s.logger.Info("Question import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func (s *importExportService) parseRow(ctx context.Context, record []string, headerMap map[string]int, rowNum int, nextOrdinal map[string]int) (*models.Question, []models.ImportRowError) {
	var rowErrors []models.ImportRowError

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	position := getColumn("position")
	if position == "" {
		rowErrors = append(rowErrors, models.ImportRowError{
			Row: rowNum, Column: "position", Message: "required field", Value: position,
		})
		return nil, rowErrors
	}

	text := getColumn("question_text")
	if text == "" {
		rowErrors = append(rowErrors, models.ImportRowError{
			Row: rowNum, Column: "question_text", Message: "required field", Value: text,
		})
		return nil, rowErrors
	}

	category := models.CategoryTechnical
	if categoryStr := getColumn("category"); categoryStr != "" {
		parsed := models.QuestionCategory(strings.ToLower(categoryStr))
		switch parsed {
		case models.CategoryTechnical, models.CategoryBehavioral, models.CategoryProject,
			models.CategoryFundamentals, models.CategoryCommunication:
			category = parsed
		default:
			rowErrors = append(rowErrors, models.ImportRowError{
				Row: rowNum, Column: "category", Message: "unknown category", Value: categoryStr,
			})
			return nil, rowErrors
		}
	}

	ordinal := 0
	if ordinalStr := getColumn("ordinal"); ordinalStr != "" {
		parsed, err := strconv.Atoi(ordinalStr)
		if err != nil || parsed < 1 {
			rowErrors = append(rowErrors, models.ImportRowError{
				Row: rowNum, Column: "ordinal", Message: "must be a positive integer", Value: ordinalStr,
			})
			return nil, rowErrors
		}
		ordinal = parsed
	} else {
		ordinal = s.allocateOrdinal(ctx, position, nextOrdinal)
		nextOrdinal[position] = ordinal + 1
	}

	return &models.Question{
		ID:       uuid.NewString(),
		Position: position,
		Category: category,
		Text:     text,
		Ordinal:  ordinal,
	}, nil
}

func (s *importExportService) allocateOrdinal(ctx context.Context, position string, nextOrdinal map[string]int) int {
	if n, ok := nextOrdinal[position]; ok {
		return n
	}
	count, err := s.repo.Question().CountByPosition(ctx, position)
	if err != nil {
		s.logger.Warn("Falling back to ordinal 1, count lookup failed", "position", position, "error", err)
		return 1
	}
	return int(count) + 1
}

// ===== EXPORT OPERATIONS =====

var exportHeaders = []string{"Position", "Category", "Question Text", "Ordinal"}

func (s *importExportService) ExportQuestionsToCSV(ctx context.Context, position string) ([]byte, error) {
	questions, err := s.questionsForExport(ctx, position)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, question := range questions {
		if err := writer.Write(questionToRow(question)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *importExportService) ExportQuestionsToExcel(ctx context.Context, position string) ([]byte, error) {
	questions, err := s.questionsForExport(ctx, position)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, question := range questions {
		for colIndex, value := range questionToRow(question) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *importExportService) questionsForExport(ctx context.Context, position string) ([]models.Question, error) {
	if position != "" {
		questions, err := s.repo.Question().GetByPosition(ctx, position)
		if err != nil {
			return nil, fmt.Errorf("failed to load questions for %q: %w", position, err)
		}
		return questions, nil
	}

	questions, _, err := s.repo.Question().List(ctx, repositories.QuestionFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return questions, nil
}

func questionToRow(question models.Question) []string {
	return []string{
		question.Position,
		string(question.Category),
		question.Text,
		strconv.Itoa(question.Ordinal),
	}
}
