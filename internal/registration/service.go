package registration

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
	"github.com/dep2p/go-regform/pkg/lib/log"
)

var logger = log.Logger("registration")

// ValidationResult 单字段校验结果
//
// Errors 对应第一个提交字段，Fields 包含所有已提交字段的错误。
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Field  string   `json:"-"`
	Errors []string `json:"errors"`
	Fields Errors   `json:"fields"`

	// Submitted 已提交的允许字段，按提交顺序
	Submitted []string `json:"-"`
}

// Service 注册服务
type Service struct {
	store pkgif.RegistrationStore
	cost  int
	clock clock.Clock
	newID func() string
}

// Option 服务选项
type Option func(*Service)

// WithBcryptCost 设置 bcrypt 代价
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithClock 设置时钟
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithIDGenerator 设置记录 ID 生成函数
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService 创建注册服务
func NewService(store pkgif.RegistrationStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		cost:  bcrypt.DefaultCost,
		clock: clock.New(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate 校验已提交字段，结果以第一个提交字段为准
func (s *Service) Validate(params Params) ValidationResult {
	fields := ValidateFields(params)
	first, _ := params.First()
	errs := fields.On(first)

	return ValidationResult{
		Valid:     len(errs) == 0,
		Field:     first,
		Errors:    errs,
		Fields:    fields,
		Submitted: params.Permitted().Keys(),
	}
}

// Create 校验全部字段并保存记录
//
// 校验失败时返回 ErrInvalid 和字段错误，记录不会被保存。
func (s *Service) Create(ctx context.Context, params Params) (*pkgif.Registration, Errors, error) {
	params = params.Permitted()

	errs := ValidateAll(params)
	if !errs.Empty() {
		logger.Debug("注册校验失败", "fields", len(errs))
		return nil, errs, ErrInvalid
	}

	rec, err := s.build(params)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Put(ctx, rec); err != nil {
		logger.Warn("保存注册记录失败", "id", log.TruncateID(rec.ID, 8), "error", err)
		return nil, nil, err
	}

	logger.Info("注册记录已创建", "id", log.TruncateID(rec.ID, 8))
	return rec, nil, nil
}

// Get 读取注册记录
func (s *Service) Get(ctx context.Context, id string) (*pkgif.Registration, error) {
	return s.store.Get(ctx, id)
}

// Count 返回注册记录数
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// build 从已校验的字段构造记录
func (s *Service) build(params Params) (*pkgif.Registration, error) {
	get := func(field string) string {
		v, _ := params.Get(field)
		return v
	}

	age, err := strconv.Atoi(strings.TrimSpace(get(FieldAge)))
	if err != nil {
		return nil, fmt.Errorf("registration: age: %w", err)
	}

	rec := &pkgif.Registration{
		ID:        s.newID(),
		Name:      get(FieldName),
		Lastname:  get(FieldLastname),
		Email:     get(FieldEmail),
		Age:       age,
		Gender:    get(FieldGender),
		CreatedAt: s.clock.Now().UTC(),
	}

	if password := get(FieldPassword); password != "" {
		digest, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("registration: digest password: %w", err)
		}
		rec.PasswordDigest = digest
	}

	return rec, nil
}
