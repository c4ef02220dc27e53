package registration

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// 允许提交的字段
const (
	FieldName     = "name"
	FieldLastname = "lastname"
	FieldEmail    = "email"
	FieldAge      = "age"
	FieldGender   = "gender"
	FieldPassword = "password"
)

// ParamsKey 请求中的参数根键
const ParamsKey = "registrations"

// PermittedFields 按表单顺序列出的允许字段
var PermittedFields = []string{
	FieldName, FieldLastname, FieldEmail, FieldAge, FieldGender, FieldPassword,
}

// Permitted 判断字段是否允许提交
func Permitted(key string) bool {
	for _, f := range PermittedFields {
		if f == key {
			return true
		}
	}
	return false
}

// Param 单个提交字段
type Param struct {
	Key   string
	Value string
}

// Params 按提交顺序保存的字段
//
// 未允许的键同样保留，以便定位第一个提交字段；
// 校验与建档只读取允许字段。
type Params []Param

// Get 返回字段值；重复提交时后者生效
func (p Params) Get(key string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, kv := range p {
		if kv.Key == key {
			value, found = kv.Value, true
		}
	}
	return value, found
}

// Keys 返回去重后的字段名，保持首次出现的顺序
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	seen := make(map[string]bool, len(p))
	for _, kv := range p {
		if !seen[kv.Key] {
			seen[kv.Key] = true
			keys = append(keys, kv.Key)
		}
	}
	return keys
}

// First 返回第一个提交的字段名
func (p Params) First() (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	return p[0].Key, true
}

// Permitted 返回只包含允许字段的副本
func (p Params) Permitted() Params {
	out := make(Params, 0, len(p))
	for _, kv := range p {
		if Permitted(kv.Key) {
			out = append(out, kv)
		}
	}
	return out
}

// ParseJSON 解析 {"registrations": {...}} 请求体
//
// 字段顺序与请求体一致。数字按原始文本保留，便于区分 "12" 与 "12.5"；
// null 视为空字符串。
func ParseJSON(body []byte) (Params, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("registration: malformed JSON body")
	}

	root := gjson.GetBytes(body, ParamsKey)
	if !root.IsObject() {
		return nil, ErrMissingParams
	}

	var params Params
	root.ForEach(func(key, value gjson.Result) bool {
		params = append(params, Param{Key: key.String(), Value: jsonScalar(value)})
		return true
	})
	if len(params) == 0 {
		return nil, ErrMissingParams
	}
	return params, nil
}

func jsonScalar(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}

// ParseForm 解析 application/x-www-form-urlencoded 请求体
//
// 只接受 registrations[field]=value 形式的键。
// url.Values 不保留顺序，这里直接按 & 切分原始请求体。
func ParseForm(raw string) (Params, error) {
	var params Params
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("registration: malformed form key: %w", err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("registration: malformed form value: %w", err)
		}

		field, ok := formField(key)
		if !ok {
			continue
		}
		params = append(params, Param{Key: field, Value: value})
	}

	if len(params) == 0 {
		return nil, ErrMissingParams
	}
	return params, nil
}

// formField 从 registrations[field] 中取出 field
func formField(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, ParamsKey+"[")
	if !ok {
		return "", false
	}
	field, ok := strings.CutSuffix(rest, "]")
	if !ok || field == "" {
		return "", false
	}
	return field, true
}
