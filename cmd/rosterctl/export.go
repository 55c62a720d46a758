package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/huming2207/Teammates-SEPT/internal/service"
)

type exportOptions struct {
	courseID   string
	instructor string
	format     string
	out        string
}

func newExportCmd(a *app) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "以指定教师身份导出课程学生名单",
		Example: "  rosterctl export --course CS2103 --instructor inst.google --format csv\n" +
			"  rosterctl export --course CS2103 --instructor inst.google --format pdf --out ./out",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.services()
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), svc.Export, opts, a.logger)
		},
	}

	cmd.Flags().StringVar(&opts.courseID, "course", "", "课程ID")
	cmd.Flags().StringVar(&opts.instructor, "instructor", "", "教师账号 google_id")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "导出格式：csv | pdf | xlsx | json")
	cmd.Flags().StringVar(&opts.out, "out", ".", "输出目录，或以 - 表示标准输出")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("instructor")
	return cmd
}

func runExport(ctx context.Context, exportSvc service.ExportService, opts *exportOptions, logger *zap.Logger) error {
	var export func(context.Context, string, string) (*bytes.Buffer, string, error)
	switch opts.format {
	case "csv":
		export = exportSvc.ExportStudentListCSV
	case "pdf":
		export = exportSvc.ExportStudentListPDF
	case "xlsx":
		export = exportSvc.ExportStudentListXLSX
	case "json":
		export = exportSvc.ExportStudentBackupJSON
	default:
		return fmt.Errorf("不支持的导出格式: %s", opts.format)
	}

	buf, filename, err := export(ctx, opts.courseID, opts.instructor)
	if err != nil {
		return fmt.Errorf("导出课程 %s 失败: %w", opts.courseID, err)
	}

	if opts.out == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	path := filepath.Join(opts.out, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	logger.Info("名册已导出", zap.String("course_id", opts.courseID), zap.String("path", path))
	return nil
}
