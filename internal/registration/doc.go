// Package registration 实现注册表单的模型、校验与持久化
//
// 字段校验规则：
//
//	name, lastname, email  必填，至少 2 个字符
//	age                    必填，整数
//	gender                 必填
//	password               无校验，仅以 bcrypt 摘要保存
//
// 单字段校验（validate 接口）只返回第一个提交字段的错误，
// 字段顺序取自请求体中的原始顺序。
package registration
