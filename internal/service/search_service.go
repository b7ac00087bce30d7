package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lm1285/project3-instrument-management-sub001/internal/models"
	"github.com/lm1285/project3-instrument-management-sub001/internal/pinyin"
)

// DefaultSuggestionLimit caps typeahead suggestion lists.
const DefaultSuggestionLimit = 10

type recordSource interface {
	GetAll(ctx context.Context) []models.InstrumentRecord
}

// SearchService evaluates multi-field, multi-strategy queries over the
// record collection: raw substring, phonetic transliteration, phonetic
// initials, and numeric matching, in that order per field.
type SearchService struct {
	store           recordSource
	suggestionLimit int
	logger          *zap.Logger
}

// NewSearchService builds the query engine.
func NewSearchService(store recordSource, suggestionLimit int, logger *zap.Logger) *SearchService {
	if suggestionLimit <= 0 {
		suggestionLimit = DefaultSuggestionLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{store: store, suggestionLimit: suggestionLimit, logger: logger}
}

// Search returns the eligible records matching the query. Records whose
// status is used or stopped never appear, regardless of the query; an empty
// query returns the full eligible collection in stored order.
func (s *SearchService) Search(ctx context.Context, query string) []models.InstrumentRecord {
	query = strings.TrimSpace(query)

	matched := make([]models.InstrumentRecord, 0)
	for _, record := range s.store.GetAll(ctx) {
		if record.InstrumentStatus.ExcludedFromSearch() {
			continue
		}
		if query == "" || matchRecord(&record, query) {
			matched = append(matched, record)
		}
	}
	return matched
}

// Suggest derives typeahead suggestions: the string fields of the matching
// records, deduplicated, filtered by substring-or-phonetic match, capped.
func (s *SearchService) Suggest(ctx context.Context, query string) []string {
	query = strings.TrimSpace(query)

	seen := make(map[string]struct{})
	suggestions := make([]string, 0, s.suggestionLimit)
	for _, record := range s.Search(ctx, query) {
		for _, value := range record.SuggestionFields() {
			if value == "" {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			if query != "" && !textOrPhoneticMatch(value, query) {
				continue
			}
			suggestions = append(suggestions, value)
			if len(suggestions) >= s.suggestionLimit {
				return suggestions
			}
		}
	}
	return suggestions
}

// matchRecord walks the fixed field set in order and stops at the first
// field that matches by any sub-rule.
func matchRecord(record *models.InstrumentRecord, query string) bool {
	for _, value := range record.SearchFields() {
		if value == "" {
			continue
		}
		if textOrPhoneticMatch(value, query) {
			return true
		}
		if numericMatch(value, query) {
			return true
		}
	}
	return false
}

func textOrPhoneticMatch(value, query string) bool {
	lowerQuery := strings.ToLower(query)
	if strings.Contains(strings.ToLower(value), lowerQuery) {
		return true
	}
	if strings.Contains(pinyin.Full(value), lowerQuery) {
		return true
	}
	return strings.Contains(pinyin.Initials(value), lowerQuery)
}

// numericMatch applies when both sides are numeric-coercible: equal numbers
// match, as does the query appearing inside the field's string form.
func numericMatch(value, query string) bool {
	queryNum, err := strconv.ParseFloat(query, 64)
	if err != nil {
		return false
	}
	if strings.Contains(value, query) {
		return true
	}
	valueNum, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}
	return valueNum == queryNum
}
