package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrTxUnsupported 当前 Repository 不支持数据库事务（如测试替身或非 SQL 存储）
var ErrTxUnsupported = errors.New("当前存储不支持事务")
