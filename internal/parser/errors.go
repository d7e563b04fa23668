package parser

import (
	"errors"
	"fmt"
)

// 定义基础输入错误类型
var (
	ErrUnreadableDocument    = errors.New("无法读取简历文档")
	ErrEmptyContent          = errors.New("简历文本内容为空或过短")
	ErrEmptyJobDescription   = errors.New("岗位描述为空")
	ErrJobDescriptionTooLong = errors.New("岗位描述超出长度上限")
)

// InputError 携带修复提示的输入校验错误。
// 输入错误在本地恢复，不做任何自动重试。
type InputError struct {
	Op      string // 出错的操作，例如 "extract", "validate"
	BaseErr error
	Hint    string // 面向用户的修复提示
	Detail  string
}

func (e *InputError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s): %s", e.BaseErr, e.Op, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s)", e.BaseErr, e.Op)
}

func (e *InputError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *InputError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// RemediationHint 返回错误的修复提示；非输入错误返回空字符串
func RemediationHint(err error) string {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Hint
	}
	return ""
}

// 错误构造函数

func NewUnreadableDocumentError(detail string) error {
	return &InputError{
		Op:      "extract",
		BaseErr: ErrUnreadableDocument,
		Hint:    "文档可能已损坏、加密或为纯图片扫描件，请重新导出带有可选中文本的 PDF",
		Detail:  detail,
	}
}

func NewEmptyContentError(detail string) error {
	return &InputError{
		Op:      "validate",
		BaseErr: ErrEmptyContent,
		Hint:    "提取到的文本不足 50 个字符，请确认 PDF 包含可选中的文字而非扫描图片",
		Detail:  detail,
	}
}

func NewEmptyJobDescriptionError() error {
	return &InputError{
		Op:      "validate",
		BaseErr: ErrEmptyJobDescription,
		Hint:    "请提供包含职责、要求和任职资格的完整岗位描述文本",
	}
}

func NewJobDescriptionTooLongError(length int) error {
	return &InputError{
		Op:      "validate",
		BaseErr: ErrJobDescriptionTooLong,
		Hint:    "请精简岗位描述，或将其拆分为多次分析",
		Detail:  fmt.Sprintf("当前 %d 个字符，上限 50000", length),
	}
}
