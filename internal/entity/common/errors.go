package common

import "errors"

// 错误分类。调用方通过 errors.Is 判断类别，具体上下文由 fmt.Errorf("%w") 包装。
var (
	// ErrNotFound 引用的角色、用户、页面设置或查询不存在。
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation 唯一名称/邮箱冲突，或删除仍被引用的记录。
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrConfiguration 缺少必需的种子数据（例如默认角色）。
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidOperation 读取只写字段。
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInvalidInput 参数格式错误，例如合并参数不是键值映射。
	ErrInvalidInput = errors.New("invalid input")
)
