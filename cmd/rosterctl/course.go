package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCourseCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-course <course-id>",
		Short: "级联删除课程及其学生、教师与反馈会话",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID := args[0]
			if !yes {
				return fmt.Errorf("删除课程 %s 不可恢复，请追加 --yes 确认", courseID)
			}

			svc, err := a.services()
			if err != nil {
				return err
			}

			present, err := svc.Course.IsCoursePresent(cmd.Context(), courseID)
			if err != nil {
				return err
			}
			if !present {
				fmt.Fprintf(cmd.OutOrStdout(), "课程 %s 不存在，无需删除\n", courseID)
				return nil
			}

			if err := svc.Course.DeleteCourseCascade(cmd.Context(), courseID); err != nil {
				return fmt.Errorf("删除课程 %s 失败: %w", courseID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "课程 %s 已删除\n", courseID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "确认删除")
	return cmd
}
