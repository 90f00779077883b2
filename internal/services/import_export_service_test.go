package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/interview-sim/interview-service/internal/models"
	"github.com/interview-sim/interview-service/internal/repositories"
)

func newImportExportService(repo *mockRepository) ImportExportService {
	return NewImportExportService(repo, slog.Default())
}

func TestImportQuestionsFromCSV(t *testing.T) {
	csvData := `position,category,question_text,ordinal
前端开发,technical,请解释浏览器的事件循环机制,1
前端开发,project,介绍一个你主导的前端项目,2
后端开发,behavioral,描述一次与同事意见不合的经历,1
`
	repo := newMockRepository()
	repo.questions.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []*models.Question) bool {
		return len(batch) == 3
	})).Return(nil)

	service := newImportExportService(repo)
	result, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.ProcessedRows)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, models.ImportCompleted, result.Status)
	require.Len(t, result.Questions, 3)

	first := result.Questions[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "前端开发", first.Position)
	assert.Equal(t, models.CategoryTechnical, first.Category)
	assert.Equal(t, "请解释浏览器的事件循环机制", first.Text)
	assert.Equal(t, 1, first.Ordinal)
	assert.Equal(t, models.CategoryBehavioral, result.Questions[2].Category)

	repo.questions.AssertExpectations(t)
}

func TestImportQuestionsFromCSV_CollectsRowErrors(t *testing.T) {
	csvData := `position,category,question_text,ordinal
前端开发,technical,请解释闭包的概念,1
,technical,缺少岗位的行,2
前端开发,nonsense,类别非法的行,3
前端开发,technical,,4
前端开发,technical,序号非法的行,zero
`
	repo := newMockRepository()
	repo.questions.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []*models.Question) bool {
		return len(batch) == 1
	})).Return(nil)

	service := newImportExportService(repo)
	result, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 4, result.ErrorCount)
	require.Len(t, result.Errors, 4)

	columns := make([]string, 0, len(result.Errors))
	for _, rowErr := range result.Errors {
		columns = append(columns, rowErr.Column)
		assert.GreaterOrEqual(t, rowErr.Row, 3)
		assert.NotEmpty(t, rowErr.Message)
	}
	assert.ElementsMatch(t, []string{"position", "category", "question_text", "ordinal"}, columns)
}

func TestImportQuestionsFromCSV_AllocatesOrdinals(t *testing.T) {
	csvData := `position,question_text
后端开发,第一个新问题
后端开发,第二个新问题
`
	repo := newMockRepository()
	repo.questions.On("CountByPosition", mock.Anything, "后端开发").Return(int64(4), nil).Once()
	repo.questions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	service := newImportExportService(repo)
	result, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csvData))

	require.NoError(t, err)
	require.Len(t, result.Questions, 2)
	assert.Equal(t, 5, result.Questions[0].Ordinal)
	assert.Equal(t, 6, result.Questions[1].Ordinal)
	repo.questions.AssertExpectations(t)
}

func TestImportQuestionsFromCSV_MissingRequiredColumn(t *testing.T) {
	csvData := `position,category
前端开发,technical
`
	service := newImportExportService(newMockRepository())
	_, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csvData))

	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestImportQuestionsFromCSV_HeaderOnly(t *testing.T) {
	service := newImportExportService(newMockRepository())
	_, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader("position,question_text\n"))

	assert.ErrorIs(t, err, ErrEmptyImport)
}

func TestImportQuestionsFromFile_UnsupportedExtension(t *testing.T) {
	service := newImportExportService(newMockRepository())
	_, err := service.ImportQuestionsFromFile(context.Background(), nil, "questions.pdf")

	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestImportQuestionsFromExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"position", "category", "question_text", "ordinal"},
		{"全栈开发", "technical", "请介绍前后端分离架构", 1},
		{"全栈开发", "project", "介绍一个全栈项目", 2},
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	repo := newMockRepository()
	repo.questions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	service := newImportExportService(repo)
	result, err := service.ImportQuestionsFromExcel(context.Background(), bytes.NewReader(buf.Bytes()))

	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	require.Len(t, result.Questions, 2)
	assert.Equal(t, "全栈开发", result.Questions[0].Position)
}

func TestExportQuestionsToCSV(t *testing.T) {
	stored := []models.Question{
		{ID: "q1", Position: "前端开发", Category: models.CategoryTechnical, Text: "请解释虚拟DOM", Ordinal: 1},
		{ID: "q2", Position: "前端开发", Category: models.CategoryProject, Text: "介绍一个前端项目", Ordinal: 2},
	}
	repo := newMockRepository()
	repo.questions.On("GetByPosition", mock.Anything, "前端开发").Return(stored, nil)

	service := newImportExportService(repo)
	data, err := service.ExportQuestionsToCSV(context.Background(), "前端开发")

	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Position", "Category", "Question Text", "Ordinal"}, records[0])
	assert.Equal(t, []string{"前端开发", "technical", "请解释虚拟DOM", "1"}, records[1])
}

func TestExportQuestionsToCSV_AllPositions(t *testing.T) {
	stored := []models.Question{
		{ID: "q1", Position: "前端开发", Category: models.CategoryTechnical, Text: "请解释虚拟DOM", Ordinal: 1},
	}
	repo := newMockRepository()
	repo.questions.On("List", mock.Anything, mock.MatchedBy(func(filters repositories.QuestionFilters) bool {
		return filters.Position == nil
	})).Return(stored, int64(1), nil)

	service := newImportExportService(repo)
	data, err := service.ExportQuestionsToCSV(context.Background(), "")

	require.NoError(t, err)
	assert.Contains(t, string(data), "请解释虚拟DOM")
	repo.questions.AssertExpectations(t)
}

func TestExportQuestionsToExcel(t *testing.T) {
	stored := []models.Question{
		{ID: "q1", Position: "后端开发", Category: models.CategoryTechnical, Text: "讲讲数据库索引", Ordinal: 1},
	}
	repo := newMockRepository()
	repo.questions.On("GetByPosition", mock.Anything, "后端开发").Return(stored, nil)

	service := newImportExportService(repo)
	data, err := service.ExportQuestionsToExcel(context.Background(), "后端开发")

	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Questions", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Position", header)
	text, err := f.GetCellValue("Questions", "C2")
	require.NoError(t, err)
	assert.Equal(t, "讲讲数据库索引", text)
}
