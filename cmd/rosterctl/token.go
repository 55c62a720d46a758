package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huming2207/Teammates-SEPT/pkg/jwt"
)

// newIssueTokenCmd 签发测试用 Access Token；正式环境的 Token 由身份服务签发
func newIssueTokenCmd(a *app) *cobra.Command {
	var googleID, role string

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "签发本地调试用 Access Token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch role {
			case jwt.RoleInstructor, jwt.RoleStudent, jwt.RoleAdmin:
			default:
				return fmt.Errorf("未知角色: %s", role)
			}

			token, err := jwt.NewManager(&a.cfg.Auth).GenerateAccessToken(googleID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&googleID, "google-id", "", "账号 google_id")
	cmd.Flags().StringVar(&role, "role", jwt.RoleInstructor, "角色：instructor | student | admin")
	_ = cmd.MarkFlagRequired("google-id")
	return cmd
}
