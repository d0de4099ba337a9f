// Package validation implements the declarative rule sets that sit in front
// of every handler. Validation is collect-all: a single submission reports
// every violated field rather than stopping at the first.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskforge/taskforge/internal/apperr"
)

// FieldType is the closed set of value types a rule can demand.
type FieldType int

const (
	String FieldType = iota
	Bool
	Timestamp
)

// Rule describes the constraints for a single field.
type Rule struct {
	Type       FieldType
	Required   bool
	Trim       bool
	Lowercase  bool
	MinLen     int
	MaxLen     int // 0 means unbounded
	Pattern    *regexp.Regexp
	PatternMsg string
	Enum       []string
	AllowNull  bool // a JSON null is accepted and kept as nil

	Default    any
	HasDefault bool
}

// RuleSet is a named mapping from field name to rule.
type RuleSet struct {
	Name   string
	Fields map[string]Rule

	// ApplyDefaults injects rule defaults for absent fields (create sets
	// only; on update sets absence means "leave unchanged").
	ApplyDefaults bool
	// RequireOne rejects input carrying none of the recognized fields.
	RequireOne bool
	// RejectUnknown errors on unrecognized keys instead of dropping them.
	// Used for query-string shapes so typos never silently pass through.
	RejectUnknown bool
}

// Validate checks raw input against the rule set and returns the sanitized
// values, or the full list of field violations.
func (rs RuleSet) Validate(raw map[string]any) (map[string]any, []apperr.FieldError) {
	var errs []apperr.FieldError
	clean := make(map[string]any, len(rs.Fields))

	if rs.RejectUnknown {
		for key := range raw {
			if _, ok := rs.Fields[key]; !ok {
				errs = append(errs, apperr.FieldError{
					Field:   key,
					Message: fmt.Sprintf("%s is not a recognized parameter", key),
				})
			}
		}
	}

	recognized := 0
	for field, rule := range rs.Fields {
		value, present := raw[field]
		if !present {
			if rule.Required {
				errs = append(errs, apperr.FieldError{Field: field, Message: field + " is required"})
			} else if rs.ApplyDefaults && rule.HasDefault {
				clean[field] = rule.Default
			}
			continue
		}
		recognized++

		if value == nil {
			if rule.AllowNull {
				clean[field] = nil
			} else if rule.Required {
				errs = append(errs, apperr.FieldError{Field: field, Message: field + " is required"})
			} else {
				errs = append(errs, apperr.FieldError{Field: field, Message: field + " must not be null"})
			}
			continue
		}

		sanitized, fieldErr := rule.check(field, value)
		if fieldErr != nil {
			errs = append(errs, *fieldErr)
			continue
		}
		clean[field] = sanitized
	}

	if rs.RequireOne && recognized == 0 && len(errs) == 0 {
		return nil, []apperr.FieldError{{Field: "body", Message: "at least one updatable field must be provided"}}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return clean, nil
}

func (r Rule) check(field string, value any) (any, *apperr.FieldError) {
	switch r.Type {
	case String:
		return r.checkString(field, value)
	case Bool:
		return checkBool(field, value)
	case Timestamp:
		return checkTimestamp(field, value)
	default:
		return nil, &apperr.FieldError{Field: field, Message: field + " has an unsupported type"}
	}
}

func (r Rule) checkString(field string, value any) (any, *apperr.FieldError) {
	s, ok := value.(string)
	if !ok {
		return nil, &apperr.FieldError{Field: field, Message: field + " must be a string"}
	}
	if r.Trim {
		s = strings.TrimSpace(s)
	}
	if r.Lowercase {
		s = strings.ToLower(s)
	}
	length := utf8.RuneCountInString(s)
	if r.Required && length == 0 {
		return nil, &apperr.FieldError{Field: field, Message: field + " is required"}
	}
	if length < r.MinLen || (r.MaxLen > 0 && length > r.MaxLen) {
		max := "unbounded"
		if r.MaxLen > 0 {
			max = fmt.Sprintf("%d", r.MaxLen)
		}
		return nil, &apperr.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be between %d and %s characters", field, r.MinLen, max),
		}
	}
	if r.Pattern != nil && !r.Pattern.MatchString(s) {
		msg := r.PatternMsg
		if msg == "" {
			msg = field + " has invalid format"
		}
		return nil, &apperr.FieldError{Field: field, Message: msg}
	}
	if len(r.Enum) > 0 && !contains(r.Enum, s) {
		return nil, &apperr.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be one of: %s", field, strings.Join(r.Enum, ", ")),
		}
	}
	return s, nil
}

// checkBool accepts a JSON boolean, or the strings "true"/"false" so the
// same rule works for query-string parameters.
func checkBool(field string, value any) (any, *apperr.FieldError) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, &apperr.FieldError{Field: field, Message: field + " must be true or false"}
}

// checkTimestamp requires a full RFC 3339 timestamp. Date-only strings are
// rejected; callers that want "no due date" send null.
func checkTimestamp(field string, value any) (any, *apperr.FieldError) {
	s, ok := value.(string)
	if !ok {
		return nil, &apperr.FieldError{Field: field, Message: field + " must be null or an RFC 3339 timestamp"}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, &apperr.FieldError{Field: field, Message: field + " must be null or an RFC 3339 timestamp"}
	}
	return t.UTC(), nil
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
