package domain

import "errors"

// 业务错误哨兵值。Service 层用 fmt.Errorf("...: %w") 包装，
// API 层用 errors.Is 映射到 HTTP 状态码。
var (
	// ErrNotFound 合同 / 客户不存在
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateCode 编号冲突（新增或改号时预检发现已被占用）
	ErrDuplicateCode = errors.New("code already exists")

	// ErrInvalidStateTransition 非法状态迁移（重复暂停、对 active 合同执行恢复）
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrValidation 调用方入参不合法
	ErrValidation = errors.New("validation failed")
)
