// Package display formats records for the console: publish dates in Russian,
// post text as Markdown and menu trees as indented outlines.
package display

import (
	"fmt"
	"time"
)

var months = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// PublishDate describes t relative to now in calendar days of now's location:
// "сегодня", "вчера", "N дня назад" / "N дней назад" up to a week, then
// "D месяца", with " YYYY г." appended when the year differs from now's.
func PublishDate(t, now time.Time) string {
	t = t.In(now.Location())

	switch days := calendarDays(t, now); {
	case days == 0:
		return "сегодня"
	case days == 1:
		return "вчера"
	case days >= 2 && days <= 4:
		return fmt.Sprintf("%d дня назад", days)
	case days >= 5 && days <= 7:
		return fmt.Sprintf("%d дней назад", days)
	}

	s := fmt.Sprintf("%d %s", t.Day(), months[t.Month()-1])
	if t.Year() != now.Year() {
		s += fmt.Sprintf(" %d г.", t.Year())
	}
	return s
}

// DateTime formats t as "D месяца YYYY г. в HH:MM".
func DateTime(t time.Time) string {
	return fmt.Sprintf("%d %s %d г. в %02d:%02d", t.Day(), months[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// calendarDays counts midnights between t and now. Both are taken as dates
// so DST shifts do not change the count.
func calendarDays(t, now time.Time) int {
	a := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
