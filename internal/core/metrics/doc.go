// Package metrics 提供监控指标收集
//
// 指标注册在私有的 prometheus.Registry 上，由 /metrics 暴露：
//
//	regform_http_requests_total{route,code}
//	regform_page_events_total{event}
//	regform_field_validations_total{field,result}
//
// 所有记录方法对 nil *Metrics 安全，关闭指标时传 nil 即可。
package metrics
