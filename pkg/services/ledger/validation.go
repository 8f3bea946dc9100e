package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

const (
	maxNameLength  = 30
	maxNoteLength  = 1000
	maxMinutes     = 1440
	maxMoneyWon    = 100_000_000
	dateLayout     = "2006-01-02"
	minReportYear  = 2020
	maxReportYear  = 2100
	futureDateSlop = 24 * time.Hour
)

var (
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// ValidationError is a user-facing input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func ValidatePersonName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return invalid("name", "이름을 입력하세요")
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return invalid("name", "이름은 30자 이내로 입력하세요")
	}
	return nil
}

// ValidateDate accepts YYYY-MM-DD dates up to one day after now.
func ValidateDate(date string, now time.Time) error {
	if date == "" {
		return invalid("date", "날짜를 선택하세요")
	}
	if !datePattern.MatchString(date) {
		return invalid("date", "날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return invalid("date", "유효하지 않은 날짜입니다")
	}
	if d.After(now.Add(futureDateSlop)) {
		return invalid("date", "미래 날짜는 입력할 수 없습니다")
	}
	return nil
}

func ValidateMinutes(minutes int) error {
	if minutes < 0 {
		return invalid("minutes", "시간은 0 이상이어야 합니다")
	}
	if minutes > maxMinutes {
		return invalid("minutes", "하루 최대 1440분(24시간)까지 입력 가능합니다")
	}
	return nil
}

func ValidateMoneyWon(amount int64) error {
	if amount < 0 {
		return invalid("moneyWon", "금액은 0 이상이어야 합니다")
	}
	if amount > maxMoneyWon {
		return invalid("moneyWon", "금액은 1억원 이하로 입력하세요")
	}
	return nil
}

func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > maxNoteLength {
		return invalid("note", "메모는 1000자 이내로 입력하세요")
	}
	return nil
}

// ValidateMonth accepts an empty month, meaning no month filter.
func ValidateMonth(month string) error {
	if month == "" {
		return nil
	}
	if !monthPattern.MatchString(month) {
		return invalid("month", "월 형식이 올바르지 않습니다 (YYYY-MM)")
	}
	year, _ := strconv.Atoi(month[:4])
	m, _ := strconv.Atoi(month[5:])
	if m < 1 || m > 12 {
		return invalid("month", "월은 01-12 사이여야 합니다")
	}
	if year < minReportYear || year > maxReportYear {
		return invalid("month", "연도는 2020-2100 사이여야 합니다")
	}
	return nil
}

func ValidateMoodDelta(v int) error {
	if v < -2 || v > 2 {
		return invalid("moodDelta", "기분 변화는 -2에서 2 사이여야 합니다")
	}
	return nil
}

func ValidateReciprocity(v int) error {
	if v < 1 || v > 5 {
		return invalid("reciprocity", "상호성은 1에서 5 사이여야 합니다")
	}
	return nil
}

func ValidateCategory(c domain.PersonCategory) error {
	switch c {
	case "", domain.CategoryPersonal, domain.CategoryWork, domain.CategoryFamily:
		return nil
	}
	return invalid("category", "알 수 없는 분류입니다")
}

func ValidatePlan(p domain.Plan) error {
	switch p {
	case domain.PlanFree, domain.PlanPlus, domain.PlanPro:
		return nil
	}
	return invalid("plan", "알 수 없는 플랜입니다")
}

// ValidateEntry checks every field of e, stopping at the first failure.
func ValidateEntry(e domain.Entry, now time.Time) error {
	if e.PersonID == "" {
		return invalid("personId", "사람을 선택하세요")
	}
	checks := []func() error{
		func() error { return ValidateDate(e.Date, now) },
		func() error { return ValidateMinutes(e.Minutes) },
		func() error { return ValidateMoneyWon(e.MoneyWon) },
		func() error { return ValidateNote(e.Note) },
		func() error { return ValidateMoodDelta(e.MoodDelta) },
		func() error { return ValidateReciprocity(e.Reciprocity) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
