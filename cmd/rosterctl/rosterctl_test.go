package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huming2207/Teammates-SEPT/config"
	"github.com/huming2207/Teammates-SEPT/internal/service"
	"github.com/huming2207/Teammates-SEPT/pkg/jwt"
)

type stubExportService struct {
	service.ExportService
	format string
}

func (s *stubExportService) ExportStudentListCSV(_ context.Context, courseID, _ string) (*bytes.Buffer, string, error) {
	s.format = "csv"
	return bytes.NewBufferString("Course ID," + courseID + "\n"), courseID + "_studentList.csv", nil
}

func (s *stubExportService) ExportStudentBackupJSON(_ context.Context, courseID, _ string) (*bytes.Buffer, string, error) {
	s.format = "json"
	return bytes.NewBufferString("[]"), courseID + "_studentBackup.json", nil
}

func TestRunExport_WritesFile(t *testing.T) {
	dir := t.TempDir()
	stub := &stubExportService{}

	err := runExport(context.Background(), stub, &exportOptions{
		courseID: "CS2103", instructor: "inst.google", format: "csv", out: dir,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "csv", stub.format)

	data, err := os.ReadFile(filepath.Join(dir, "CS2103_studentList.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Course ID,CS2103\n", string(data))
}

func TestRunExport_UnsupportedFormat(t *testing.T) {
	err := runExport(context.Background(), &stubExportService{}, &exportOptions{
		courseID: "CS2103", format: "docx", out: t.TempDir(),
	}, zap.NewNop())
	assert.ErrorContains(t, err, "docx")
}

func TestIssueTokenCmd(t *testing.T) {
	t.Setenv("ROSTER_AUTH_JWT_SECRET", "cli-test-secret-0123456789abcdef")

	root := newRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"issue-token", "--google-id", "inst.google", "--role", "instructor"})
	require.NoError(t, root.Execute())

	mgr := jwt.NewManager(&config.AuthConfig{JWTSecret: "cli-test-secret-0123456789abcdef"})
	claims, err := mgr.ParseToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "inst.google", claims.GoogleID)
	assert.Equal(t, jwt.RoleInstructor, claims.Role)
}

func TestDeleteCourseCmd_RequiresConfirmation(t *testing.T) {
	t.Setenv("ROSTER_AUTH_JWT_SECRET", "cli-test-secret-0123456789abcdef")

	root := newRootCmd()
	root.SetArgs([]string{"delete-course", "CS2103"})
	err := root.Execute()
	assert.ErrorContains(t, err, "--yes")
}
