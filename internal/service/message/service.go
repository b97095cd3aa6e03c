package message

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"vertitrack/internal/domain"
)

type Translator interface {
	Translate(locale, key string) string
}

type Rendered struct {
	Title   string
	Message string
}

// Service renders alert text for a candidate. It has no side effects.
type Service interface {
	Render(candidate domain.DeadlineCandidate, daysRemaining int) (Rendered, error)
}

type service struct {
	translator Translator
	locale     string

	mu    sync.Mutex
	cache map[string]*template.Template
}

func NewService(translator Translator, locale string) Service {
	return &service{
		translator: translator,
		locale:     locale,
		cache:      make(map[string]*template.Template),
	}
}

// view is the data every template sees.
type view struct {
	domain.CandidateContext
	DueDate string
	Days    int
	DaysAgo int
}

func (s *service) Render(candidate domain.DeadlineCandidate, daysRemaining int) (Rendered, error) {
	titleKey, messageKey := keysFor(candidate.Category, daysRemaining)

	data := view{
		CandidateContext: candidate.Context,
		DueDate:          candidate.DueDate.Format(domain.DateLayout),
		Days:             daysRemaining,
		DaysAgo:          -daysRemaining,
	}

	title, err := s.execute(titleKey, data)
	if err != nil {
		return Rendered{}, err
	}
	msg, err := s.execute(messageKey, data)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Title: title, Message: msg}, nil
}

// keysFor picks the catalog entries for a category. The sign of
// daysRemaining selects between upcoming, same-day and overdue wording.
func keysFor(category domain.AlertCategory, daysRemaining int) (string, string) {
	prefix := string(category)

	switch category {
	case domain.CategoryStaffAbsence:
		return prefix + ".title", prefix + ".message"
	case domain.CategoryServiceDue:
		return prefix + ".title", prefix + ".overdue"
	case domain.CategoryContractExpiry:
		switch {
		case daysRemaining < 0:
			return prefix + ".overdue_title", prefix + ".overdue"
		case daysRemaining == 0:
			return prefix + ".title", prefix + ".today"
		}
		return prefix + ".title", prefix + ".upcoming"
	}

	if daysRemaining == 0 {
		return prefix + ".title", prefix + ".today"
	}
	return prefix + ".title", prefix + ".upcoming"
}

func (s *service) execute(key string, data view) (string, error) {
	tmpl, err := s.template(key)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", key, err)
	}
	return buf.String(), nil
}

func (s *service) template(key string) (*template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tmpl, ok := s.cache[key]; ok {
		return tmpl, nil
	}

	tmpl, err := template.New(key).Option("missingkey=error").Parse(s.translator.Translate(s.locale, key))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", key, err)
	}
	s.cache[key] = tmpl
	return tmpl, nil
}
