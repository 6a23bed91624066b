package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

var datePattern = regexp.MustCompile(`^[0-9X]{4}-[0-9X]{2}-[0-9X]{2}$`)

// Date дата с необязательными частями.
// Сериализуется как YYYY-MM-DD, неизвестные части заменяются на XXXX и XX.
type Date struct {
	Day   *int `json:"-"`
	Month *int `json:"-"`
	Year  *int `json:"-"`
}

// DateRange промежуток дат
type DateRange struct {
	Start *Date `json:"start,omitempty"`
	End   *Date `json:"end,omitempty"`
}

// String форматирует дату в виде YYYY-MM-DD
func (d Date) String() string {
	year, month, day := "XXXX", "XX", "XX"
	if d.Year != nil {
		year = fmt.Sprintf("%04d", *d.Year)
	}
	if d.Month != nil {
		month = fmt.Sprintf("%02d", *d.Month)
	}
	if d.Day != nil {
		day = fmt.Sprintf("%02d", *d.Day)
	}
	return year + "-" + month + "-" + day
}

// ParseDate разбирает дату формата YYYY-MM-DD с возможными X
func ParseDate(s string) (Date, error) {
	if !datePattern.MatchString(s) {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}

	var d Date
	var err error
	if d.Year, err = parseDatePart(s[:4]); err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if d.Month, err = parseDatePart(s[5:7]); err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if d.Day, err = parseDatePart(s[8:]); err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

func parseDatePart(part string) (*int, error) {
	allX := true
	for _, r := range part {
		if r != 'X' {
			allX = false
			break
		}
	}
	if allX {
		return nil, nil
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarshalJSON кодирует дату строкой
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON декодирует дату из строки
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NewDate создает дату; нулевые части считаются неизвестными
func NewDate(year, month, day int) *Date {
	d := &Date{}
	if year != 0 {
		d.Year = &year
	}
	if month != 0 {
		d.Month = &month
	}
	if day != 0 {
		d.Day = &day
	}
	return d
}
