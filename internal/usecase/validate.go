package usecase

import (
	"context"
	"strings"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/verdict"
)

const maxSourceCodeSize = 1 << 20 // 1 MB

// SuiteRunner runs code against a list of test cases.
type SuiteRunner interface {
	RunTestSuite(ctx context.Context, code string, language domain.Language, testCases []domain.TestCase, opts ...verdict.RunOption) (*domain.SubmissionVerdict, error)
}

// validateCode checks language and source and returns the canonical language name.
func validateCode(lang domain.Language, code string) (domain.Language, error) {
	info, ok := domain.LookupLanguage(lang)
	if !ok {
		return "", domain.ErrInvalidLanguage
	}
	if strings.TrimSpace(code) == "" {
		return "", domain.ErrEmptySourceCode
	}
	if len(code) > maxSourceCodeSize {
		return "", domain.ErrPayloadTooLarge
	}
	return info.Name, nil
}
