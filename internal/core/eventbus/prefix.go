package eventbus

import "strings"

// Separator 命名空间分隔符
const Separator = "."

// ResolvePrefix 计算命名空间前缀
//
// 各段以 "." 连接并追加结尾的 "."；只有没有任何段时返回 ""，
// 段为空字符串时仍追加 "."。
//
//	ResolvePrefix(nil)                    // ""
//	ResolvePrefix([]string{""})           // "."
//	ResolvePrefix([]string{"user"})       // "user."
//	ResolvePrefix([]string{"a", "b"})     // "a.b."
func ResolvePrefix(prefix []string) string {
	if len(prefix) == 0 {
		return ""
	}
	return strings.Join(prefix, Separator) + Separator
}

// splitNames 拆分空格分隔的事件名列表
func splitNames(s string) []string {
	return strings.Fields(s)
}
