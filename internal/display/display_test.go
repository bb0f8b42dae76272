package display

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepoint/vantage-admin/internal/domain"
)

func TestPublishDate(t *testing.T) {
	zone := time.FixedZone("UTC+7", 7*60*60)
	now := time.Date(2026, 2, 26, 14, 32, 3, 0, zone)

	tests := []struct {
		input string
		want  string
	}{
		{"2026-02-26T10:00:00Z", "сегодня"},
		{"2026-02-25T10:00:00Z", "вчера"},
		{"2026-02-24T10:00:00Z", "2 дня назад"},
		{"2026-02-23T10:00:00Z", "3 дня назад"},
		{"2026-02-22T10:00:00Z", "4 дня назад"},
		{"2026-02-21T10:00:00Z", "5 дней назад"},
		{"2026-02-19T10:00:00Z", "7 дней назад"},
		{"2026-02-18T10:00:00Z", "18 февраля"},
		{"2025-12-12T10:00:00Z", "12 декабря 2025 г."},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ts, err := time.Parse(time.RFC3339, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, PublishDate(ts, now))
		})
	}
}

func TestPublishDate_UsesNowLocation(t *testing.T) {
	// 20:00 UTC on the 25th is already the 26th at UTC+7.
	zone := time.FixedZone("UTC+7", 7*60*60)
	now := time.Date(2026, 2, 26, 9, 0, 0, 0, zone)
	ts := time.Date(2026, 2, 25, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "сегодня", PublishDate(ts, now))
	assert.Equal(t, "вчера", PublishDate(ts, now.In(time.UTC)))
}

func TestDateTime(t *testing.T) {
	ts := time.Date(2026, 3, 5, 9, 7, 0, 0, time.UTC)
	assert.Equal(t, "5 марта 2026 г. в 09:07", DateTime(ts))
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"plain text unchanged", "Обычный текст.", "Обычный текст."},
		{"angle brackets without tags", "2 > 1 и <stdin>", "2 > 1 и <stdin>"},
		{"paragraphs", "<p>Первый абзац.</p><p>Второй абзац.</p>", "Первый абзац.\n\nВторой абзац."},
		{"bold", "Это <b>жирный</b> и <strong>сильный</strong> текст.", "Это **жирный** и **сильный** текст."},
		{"links", `Смотрите <a href="https://example.com">сайт</a>.`, "Смотрите [сайт](https://example.com)."},
		{"unordered list", "<ul><li>Один</li><li>Два</li></ul>", "- Один\n- Два"},
		{"heading", "<h1>Заголовок</h1><p>Текст</p>", "# Заголовок\n\nТекст"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Markdown(tt.input))
		})
	}
}

func TestWriteTree(t *testing.T) {
	nodes := []*domain.MenuNode{
		{ID: "home", Name: "Главная", Route: "/", Children: []*domain.MenuNode{}},
		{ID: "about", Name: "О нас", Sort: 1, Children: []*domain.MenuNode{
			{ID: "team", Name: "Команда", CustomURL: "https://example.com/team", Children: []*domain.MenuNode{}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, nodes))
	assert.Equal(t,
		"- Главная [home] #0 -> /\n"+
			"- О нас [about] #1\n"+
			"  - Команда [team] #0 -> https://example.com/team\n",
		buf.String())
}
