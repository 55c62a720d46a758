package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/huming2207/Teammates-SEPT/config"
	"github.com/huming2207/Teammates-SEPT/internal/model"
	"github.com/huming2207/Teammates-SEPT/internal/repository"
	"github.com/huming2207/Teammates-SEPT/internal/roster"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// 学生状态
const (
	StatusJoined    = "Joined"
	StatusYetToJoin = "Yet to join"
)

// ExportService 名册导出接口
//
// 设计说明：
//   - 行推导（DeriveRows）与文件编码分离，CSV / PDF / XLSX 共用同一份行数据
//   - 是否输出 Section 列在每次导出时根据名册重新计算，同一份导出中所有行保持一致
//   - 课程必须属于调用者的教师课程之一，否则视为课程不存在
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// DeriveRows 纯函数：返回表头与按划分顺序排列的数据行
	DeriveRows(bundle *CourseDetailsBundle) ([]string, [][]string)

	ExportStudentListCSV(ctx context.Context, courseID, googleID string) (*bytes.Buffer, string, error)
	ExportStudentListPDF(ctx context.Context, courseID, googleID string) (*bytes.Buffer, string, error)
	ExportStudentListXLSX(ctx context.Context, courseID, googleID string) (*bytes.Buffer, string, error)
	// ExportStudentBackupJSON 直接序列化 Section 数组，不加外层包装
	ExportStudentBackupJSON(ctx context.Context, courseID, googleID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo        *repository.Repository
	summary     CourseSummaryService
	pdfFontSize float64
	logger      *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.ExportConfig, repo *repository.Repository, summary CourseSummaryService, logger *zap.Logger) ExportService {
	fontSize := 10.0
	if cfg != nil && cfg.PDFFontSize > 0 {
		fontSize = cfg.PDFFontSize
	}
	return &exportService{repo: repo, summary: summary, pdfFontSize: fontSize, logger: logger}
}

// ────────────────────── 行推导 ──────────────────────

func (s *exportService) DeriveRows(bundle *CourseDetailsBundle) ([]string, [][]string) {
	return deriveRows(bundle)
}

func deriveRows(bundle *CourseDetailsBundle) ([]string, [][]string) {
	hasSection := hasIndicatedSections(bundle.Sections)

	header := []string{"Team", "Full Name", "Last Name", "Status", "Email"}
	if hasSection {
		header = append([]string{"Section"}, header...)
	}

	rows := make([][]string, 0, bundle.Stats.StudentsTotal)
	for _, section := range bundle.Sections {
		for _, team := range section.Teams {
			for _, student := range team.Students {
				row := make([]string, 0, len(header))
				if hasSection {
					row = append(row, section.Name)
				}
				row = append(row,
					team.Name,
					removeExtraSpace(student.Name),
					removeExtraSpace(student.LastName),
					studentStatus(student),
					student.Email,
				)
				rows = append(rows, row)
			}
		}
	}
	return header, rows
}

func hasIndicatedSections(sections []roster.Section) bool {
	for _, section := range sections {
		if section.Name != roster.DefaultSection {
			return true
		}
	}
	return false
}

func studentStatus(student roster.Student) string {
	if student.IsRegistered() {
		return StatusJoined
	}
	return StatusYetToJoin
}

// removeExtraSpace 合并连续空白并去除首尾空白
func removeExtraSpace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// ═══════════════════════════════════════════════════════════
// ExportStudentListCSV：导出学生名单为 CSV
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   Course ID,<id>
//   Course Name,<name>
//   （空行）
//   [Section,]Team,Full Name,Last Name,Status,Email
//   每名学生一行，顺序与名册划分顺序一致

func (s *exportService) ExportStudentListCSV(ctx context.Context, courseID, googleID string) (*bytes.Buffer, string, error) {
	bundle, err := s.loadBundle(ctx, courseID, googleID)
	if err != nil {
		return nil, "", err
	}

	buf, err := encodeCSV(bundle)
	if err != nil {
		s.logger.Error("写入 CSV 失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, exportFilename(bundle.Course, "csv"), nil
}

func encodeCSV(bundle *CourseDetailsBundle) (*bytes.Buffer, error) {
	header, rows := deriveRows(bundle)

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"Course ID", bundle.Course.CourseID})
	_ = w.Write([]string{"Course Name", bundle.Course.Name})
	w.Flush()
	buf.WriteString("\n")

	_ = w.Write(header)
	_ = w.WriteAll(rows)
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}

// ────────────────────── PDF ──────────────────────

func (s *exportService) ExportStudentListPDF(ctx context.Context, courseID, googleID string) (*bytes.Buffer, string, error) {
	bundle, err := s.loadBundle(ctx, courseID, googleID)
	if err != nil {
		return nil, "", err
	}

	buf, err := encodePDF(bundle, s.pdfFontSize)
	if err != nil {
		s.logger.Error("生成 PDF 失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, exportFilename(bundle.Course, "pdf"), nil
}

func encodePDF(bundle *CourseDetailsBundle, fontSize float64) (*bytes.Buffer, error) {
	header, rows := deriveRows(bundle)
	title := "Student list of " + bundle.Course.Name

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(header))
	lineHeight := fontSize * 0.6

	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range header {
		pdf.CellFormat(colWidth, lineHeight, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for _, v := range row {
			pdf.CellFormat(colWidth, lineHeight, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ────────────────────── XLSX ──────────────────────

func (s *exportService) ExportStudentListXLSX(ctx context.Context, courseID, googleID string) (*bytes.Buffer, string, error) {
	bundle, err := s.loadBundle(ctx, courseID, googleID)
	if err != nil {
		return nil, "", err
	}

	buf, err := encodeXLSX(bundle)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, exportFilename(bundle.Course, "xlsx"), nil
}

func encodeXLSX(bundle *CourseDetailsBundle) (*bytes.Buffer, error) {
	header, rows := deriveRows(bundle)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "名册"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	for i := range header {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, 22)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", "Student list of "+bundle.Course.Name)
	f.MergeCell(sheetName, "A1", cell(colName(len(header)-1), 1))

	// 表头
	row := 2
	for i, h := range header {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(header)-1), row), headerStyle)

	// 数据行
	for _, r := range rows {
		row++
		for i, v := range r {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ────────────────────── JSON ──────────────────────

func (s *exportService) ExportStudentBackupJSON(ctx context.Context, courseID, googleID string) (*bytes.Buffer, string, error) {
	bundle, err := s.loadBundle(ctx, courseID, googleID)
	if err != nil {
		return nil, "", err
	}

	data, err := json.Marshal(bundle.Sections)
	if err != nil {
		s.logger.Error("序列化名册失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return bytes.NewBuffer(data), exportFilename(bundle.Course, "json"), nil
}

// ── 辅助函数 ──

// loadBundle 只构建调用者作为教师的目标课程的摘要
func (s *exportService) loadBundle(ctx context.Context, courseID, googleID string) (*CourseDetailsBundle, error) {
	instructors, err := s.repo.Instructor.ListByGoogleID(ctx, googleID, false)
	if err != nil {
		s.logger.Error("查询教师记录失败", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}
	if len(instructors) == 0 {
		return nil, ErrInstructorNotFound
	}

	var target []model.Instructor
	for i := range instructors {
		if instructors[i].CourseID == courseID {
			target = append(target, instructors[i])
		}
	}
	if len(target) == 0 {
		return nil, ErrCourseNotFound
	}

	summaries, err := s.summary.GetCourseSummariesForInstructors(ctx, target)
	if err != nil {
		return nil, err
	}
	bundle, ok := summaries[courseID]
	if !ok {
		return nil, ErrCourseNotFound
	}
	return bundle, nil
}

func exportFilename(course *model.Course, ext string) string {
	if ext == "json" {
		return fmt.Sprintf("%s_studentBackup.json", course.CourseID)
	}
	return fmt.Sprintf("%s_studentList.%s", course.CourseID, ext)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
