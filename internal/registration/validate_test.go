package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateField 测试单字段校验规则
func TestValidateField(t *testing.T) {
	tooShort := MsgTooShort(MinLength)

	tests := []struct {
		field string
		value string
		want  []string
	}{
		{FieldName, "Ada", nil},
		{FieldName, "A", []string{tooShort}},
		{FieldName, "", []string{MsgBlank, tooShort}},
		{FieldName, "   ", []string{MsgBlank}},
		{FieldLastname, "Lé", nil},
		{FieldEmail, "x", []string{tooShort}},
		{FieldAge, "36", nil},
		{FieldAge, " -3 ", nil},
		{FieldAge, "12.5", []string{MsgNotInteger}},
		{FieldAge, "1e3", []string{MsgNotInteger}},
		{FieldAge, "abc", []string{MsgNotANumber}},
		{FieldAge, "", []string{MsgBlank, MsgNotANumber}},
		{FieldGender, "", []string{MsgBlank}},
		{FieldGender, "f", nil},
		{FieldPassword, "", nil},
		{"admin", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(tt.field, tt.value))
		})
	}
}

// TestMsgTooShort 测试长度消息格式
func TestMsgTooShort(t *testing.T) {
	assert.Equal(t, "is too short (minimum is 2 characters)", MsgTooShort(2))
}

// TestValidateFields 测试只校验提交字段
func TestValidateFields(t *testing.T) {
	errs := ValidateFields(Params{{"name", "A"}, {"age", "x"}})

	assert.Len(t, errs, 2)
	assert.Equal(t, []string{MsgNotANumber}, errs.On("age"))
	assert.Empty(t, errs.On("email"))
	assert.NotNil(t, errs.On("email"))
	assert.False(t, errs.Empty())
}

// TestValidateAll 测试缺失字段按空值校验
func TestValidateAll(t *testing.T) {
	errs := ValidateAll(Params{{"name", "Ada"}})

	assert.Empty(t, errs.On("name"))
	assert.Equal(t, []string{MsgBlank}, errs.On("gender"))
	assert.Contains(t, errs, "lastname")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "age")
	assert.NotContains(t, errs, "password")

	assert.True(t, ValidateAll(validParams()).Empty())
}

// validParams 返回一组完整合法的字段
func validParams() Params {
	return Params{
		{FieldName, "Ada"},
		{FieldLastname, "Lovelace"},
		{FieldEmail, "ada@example.com"},
		{FieldAge, "36"},
		{FieldGender, "f"},
		{FieldPassword, "analytical"},
	}
}
