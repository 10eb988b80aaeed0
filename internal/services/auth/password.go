// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"bufio"
	_ "embed"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

//go:embed common_passwords.txt
var commonPasswordList string

var commonPasswords = loadCommonPasswords(commonPasswordList)

func loadCommonPasswords(list string) map[string]struct{} {
	set := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(list))
	for scanner.Scan() {
		if pw := strings.ToLower(strings.TrimSpace(scanner.Text())); pw != "" {
			set[pw] = struct{}{}
		}
	}
	return set
}

// Password rule codes. They double as translation IDs.
const (
	RuleMinLength     = "password_min_length"
	RuleNumeric       = "password_numeric"
	RuleCommon        = "password_common"
	RuleSimilarToUser = "password_similar"
)

const DefaultMinPasswordLength = 10

// PasswordError lists the rules a password broke.
type PasswordError struct {
	Rules     []string
	MinLength int
}

func (e *PasswordError) Error() string {
	return "password rejected: " + strings.Join(e.Rules, ", ")
}

// PasswordPolicy checks new passwords.
type PasswordPolicy struct {
	MinLength int
}

// Check returns a *PasswordError when password breaks a rule. attrs are
// user attributes such as username or e-mail the password must not resemble.
func (p PasswordPolicy) Check(password string, attrs ...string) error {
	minLength := p.MinLength
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}

	var broken []string
	if len([]rune(password)) < minLength {
		broken = append(broken, RuleMinLength)
	}
	if password != "" && lo.EveryBy([]rune(password), unicode.IsDigit) {
		broken = append(broken, RuleNumeric)
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		broken = append(broken, RuleCommon)
	}
	if resemblesAny(password, attrs) {
		broken = append(broken, RuleSimilarToUser)
	}

	if len(broken) == 0 {
		return nil
	}
	return &PasswordError{Rules: broken, MinLength: minLength}
}

func resemblesAny(password string, attrs []string) bool {
	pw := strings.ToLower(password)
	return lo.SomeBy(attrs, func(attr string) bool {
		attr = strings.ToLower(attr)
		if local, _, ok := strings.Cut(attr, "@"); ok {
			attr = local
		}
		if len(attr) < 3 || pw == "" {
			return false
		}
		return strings.Contains(pw, attr) || strings.Contains(attr, pw) || commonRatio(pw, attr) > 0.7
	})
}

// commonRatio is the length of the longest common subsequence of a and b
// relative to the longer one.
func commonRatio(a, b string) float64 {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	return float64(prev[len(b)]) / float64(max(len(a), len(b)))
}
