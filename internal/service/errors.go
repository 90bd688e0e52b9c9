package service

import (
	"errors"
	"sort"
	"strings"
)

// 哨兵错误，handler 层映射 HTTP 状态码
var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidCode 故意不区分「没签发过」「已过期」「码不对」
	ErrInvalidCode = errors.New("invalid or expired confirmation code")
)

// FieldErrors 按字段聚合校验错误，整体作为一个 error 返回，
// 不在第一个失败字段上短路
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], "; "))
	}
	return strings.Join(parts, " | ")
}

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Merge(other FieldErrors) {
	for k, v := range other {
		fe[k] = append(fe[k], v...)
	}
}

// AsFieldErrors 方便 handler 判断并取出字段错误
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "unique failed")
}
