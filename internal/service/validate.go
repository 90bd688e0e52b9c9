package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// ReservedUsername 任何大小写形式都禁止
	ReservedUsername = "me"

	MaxUsernameLen = 150
	MaxEmailLen    = 254
	MaxSlugLen     = 50
	MaxNameLen     = 256

	MinScore = 1
	MaxScore = 10
)

// \w 在 Go 里只有 ASCII，这里要放行任意语言的字母数字（кино、映画 都是合法用户名）
var (
	usernameRe    = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	usernameAllow = regexp.MustCompile(`[\p{L}\p{N}_.@+-]`)
	slugRe        = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// validateUsername 聚合返回所有问题，不在第一个错误上停
func validateUsername(username string) []string {
	var errs []string
	if username == "" {
		return []string{"username is required"}
	}
	// 长度按字符数算，不是字节数
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		errs = append(errs, fmt.Sprintf("username must be %d characters or fewer", MaxUsernameLen))
	}
	if strings.EqualFold(username, ReservedUsername) {
		errs = append(errs, fmt.Sprintf("username %q is not allowed", ReservedUsername))
	}
	if !usernameRe.MatchString(username) {
		errs = append(errs, fmt.Sprintf(
			"username contains invalid characters: %s. only letters, digits and @/./+/-/_ are allowed",
			invalidChars(username)))
	}
	return errs
}

// invalidChars 去掉允许的字符后去重排序，方便用户照着改
func invalidChars(s string) string {
	bad := usernameAllow.ReplaceAllString(s, "")
	seen := map[rune]struct{}{}
	var runes []rune
	for _, r := range bad {
		if _, ok := seen[r]; !ok {
			seen[r] = struct{}{}
			runes = append(runes, r)
		}
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

func validateEmail(email string) []string {
	var errs []string
	if email == "" {
		return []string{"email is required"}
	}
	if utf8.RuneCountInString(email) > MaxEmailLen {
		errs = append(errs, fmt.Sprintf("email must be %d characters or fewer", MaxEmailLen))
	}
	if a, err := mail.ParseAddress(email); err != nil || a.Address != email {
		errs = append(errs, "enter a valid email address")
	}
	return errs
}

func validateSlug(slug string) []string {
	var errs []string
	if slug == "" {
		return []string{"slug is required"}
	}
	if utf8.RuneCountInString(slug) > MaxSlugLen {
		errs = append(errs, fmt.Sprintf("slug must be %d characters or fewer", MaxSlugLen))
	}
	if !slugRe.MatchString(slug) {
		errs = append(errs, "slug may contain only letters, digits, hyphens and underscores")
	}
	return errs
}
