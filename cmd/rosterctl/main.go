// rosterctl 名册服务运维命令行：数据库迁移、名册导出、课程删除与测试 Token 签发
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
