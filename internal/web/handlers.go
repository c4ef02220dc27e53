package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dep2p/go-regform/internal/registration"
	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// ============================================================================
//                              视图模型
// ============================================================================

// formField 表单字段视图
type formField struct {
	Name      string
	Label     string
	InputType string
	Value     string
	Errors    []string
}

// indexView 表单页视图
type indexView struct {
	Title  string
	Fields []formField
}

func newIndexView(params registration.Params, errs registration.Errors) indexView {
	fields := make([]formField, 0, len(registration.PermittedFields))
	for _, name := range registration.PermittedFields {
		f := formField{
			Name:      name,
			Label:     strings.ToUpper(name[:1]) + name[1:],
			InputType: "text",
			Errors:    errs.On(name),
		}
		switch name {
		case registration.FieldPassword:
			// 密码不回填
			f.InputType = "password"
		case registration.FieldEmail:
			f.InputType = "email"
			f.Value, _ = params.Get(name)
		default:
			f.Value, _ = params.Get(name)
		}
		fields = append(fields, f)
	}
	return indexView{Title: "Registration", Fields: fields}
}

// ============================================================================
//                              HTTP 处理器
// ============================================================================

// handleIndex 渲染空白表单
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "index", newIndexView(nil, nil))
}

// handleCreate 创建注册记录
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	params, ok := s.readParams(w, r)
	if !ok {
		return
	}

	rec, errs, err := s.svc.Create(r.Context(), params)
	switch {
	case errors.Is(err, registration.ErrInvalid):
		if perr := s.page.RegistrationRejected(r.Context(), errs); perr != nil {
			logger.Warn("页面脚本处理失败", "event", EventRejected, "error", perr)
		}
		s.render(w, http.StatusUnprocessableEntity, "index", newIndexView(params, errs))
		return
	case err != nil:
		logger.Error("创建注册记录失败", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if perr := s.page.RegistrationCreated(r.Context(), rec); perr != nil {
		logger.Warn("页面脚本处理失败", "event", EventCreated, "error", perr)
	}
	http.Redirect(w, r, "/registration/"+url.PathEscape(rec.ID), http.StatusSeeOther)
}

// handleShow 展示注册记录
func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Get(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, registration.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		logger.Error("读取注册记录失败", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "show", struct {
		Title  string
		Record *pkgif.Registration
	}{Title: "Registration", Record: rec})
}

// handleValidate 校验第一个提交字段
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	params, ok := s.readParams(w, r)
	if !ok {
		return
	}

	res := s.svc.Validate(params)
	if err := s.page.FieldsValidated(r.Context(), res); err != nil {
		logger.Warn("页面脚本处理失败", "event", "registration.field", "error", err)
	}

	s.writeJSON(w, http.StatusOK, res)
}

// handleScriptPage 渲染脚本示例页
func (s *Server) handleScriptPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := s.page.EventNames(r.Context())
		if err != nil {
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		s.render(w, http.StatusOK, "page", struct {
			Title  string
			Events []string
		}{Title: name, Events: events})
	}
}

// echoResponse echo 响应
type echoResponse struct {
	Event     string `json:"event"`
	Message   string `json:"message"`
	Observers int    `json:"observers"`
}

// handleEcho 在页面总线上触发 echo
func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var message string
	if isJSON(r) {
		if !gjson.ValidBytes(body) {
			http.Error(w, "Malformed JSON", http.StatusBadRequest)
			return
		}
		message = gjson.GetBytes(body, "message").String()
	} else {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			http.Error(w, "Malformed form", http.StatusBadRequest)
			return
		}
		message = values.Get("message")
	}

	observers, err := s.page.Echo(r.Context(), message)
	if err != nil {
		logger.Warn("echo 派发失败", "error", err)
		http.Error(w, "Echo failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, echoResponse{
		Event:     EventEcho,
		Message:   message,
		Observers: observers,
	})
}

// handleHealth 健康检查
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.svc.Count(r.Context())
	status := "ok"
	code := http.StatusOK
	if err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	s.writeJSON(w, code, struct {
		Status        string    `json:"status"`
		Registrations int64     `json:"registrations"`
		Timestamp     time.Time `json:"timestamp"`
	}{Status: status, Registrations: count, Timestamp: time.Now().UTC()})
}

// ============================================================================
//                              工具函数
// ============================================================================

// readBody 读取请求体，失败时写入错误响应
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	return body, true
}

// readParams 按 Content-Type 解析 registrations 参数
func (s *Server) readParams(w http.ResponseWriter, r *http.Request) (registration.Params, bool) {
	body, ok := s.readBody(w, r)
	if !ok {
		return nil, false
	}

	var (
		params registration.Params
		err    error
	)
	if isJSON(r) {
		params, err = registration.ParseJSON(body)
	} else {
		params, err = registration.ParseForm(string(body))
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return params, true
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// render 渲染模板
func (s *Server) render(w http.ResponseWriter, code int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("渲染模板失败", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// writeJSON 写入 JSON 响应
func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	encoder := json.NewEncoder(w)
	if err := encoder.Encode(v); err != nil {
		logger.Error("编码 JSON 响应失败", "error", err)
	}
}
