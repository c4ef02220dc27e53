package registration

import (
	"errors"

	pkgif "github.com/dep2p/go-regform/pkg/interfaces"
)

var (
	// ErrMissingParams 请求中缺少 registrations 参数
	ErrMissingParams = errors.New("registration: param is missing or the value is empty: registrations")

	// ErrInvalid 注册记录未通过校验
	ErrInvalid = errors.New("registration: record is invalid")

	// ErrNotFound 注册记录不存在
	ErrNotFound = pkgif.ErrRegistrationNotFound
)
