package registration

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// 校验错误消息
const (
	MsgBlank      = "can't be blank"
	MsgNotANumber = "is not a number"
	MsgNotInteger = "must be an integer"
)

// MinLength 文本字段最小长度
const MinLength = 2

// MsgTooShort 返回长度不足的错误消息
func MsgTooShort(min int) string {
	return fmt.Sprintf("is too short (minimum is %d characters)", min)
}

var (
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	numberPattern  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// Errors 字段到错误消息列表的映射
type Errors map[string][]string

// On 返回指定字段的错误，没有时返回空切片而不是 nil
func (e Errors) On(field string) []string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs
	}
	return []string{}
}

// Empty 是否没有任何错误
func (e Errors) Empty() bool {
	for _, msgs := range e {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// validator 单字段校验函数，返回错误消息
type validator func(value string) []string

// rules 按字段声明的校验规则
var rules = map[string][]validator{
	FieldName:     {presence, length(MinLength)},
	FieldLastname: {presence, length(MinLength)},
	FieldEmail:    {presence, length(MinLength)},
	FieldAge:      {presence, integer},
	FieldGender:   {presence},
}

func presence(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{MsgBlank}
	}
	return nil
}

func length(min int) validator {
	return func(value string) []string {
		if utf8.RuneCountInString(value) < min {
			return []string{MsgTooShort(min)}
		}
		return nil
	}
}

func integer(value string) []string {
	v := strings.TrimSpace(value)
	switch {
	case integerPattern.MatchString(v):
		return nil
	case numberPattern.MatchString(v):
		return []string{MsgNotInteger}
	default:
		return []string{MsgNotANumber}
	}
}

// ValidateField 校验单个字段
//
// 未声明规则的字段（password 或未允许字段）总是通过。
func ValidateField(field, value string) []string {
	var msgs []string
	for _, v := range rules[field] {
		msgs = append(msgs, v(value)...)
	}
	return msgs
}

// ValidateFields 只校验已提交的字段
func ValidateFields(params Params) Errors {
	errs := make(Errors)
	for _, key := range params.Keys() {
		value, _ := params.Get(key)
		if msgs := ValidateField(key, value); len(msgs) > 0 {
			errs[key] = msgs
		}
	}
	return errs
}

// ValidateAll 校验全部字段，缺失字段按空值处理
func ValidateAll(params Params) Errors {
	errs := make(Errors)
	for _, field := range PermittedFields {
		value, _ := params.Get(field)
		if msgs := ValidateField(field, value); len(msgs) > 0 {
			errs[field] = msgs
		}
	}
	return errs
}
