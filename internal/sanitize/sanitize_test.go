package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasSuspiciousContent(t *testing.T) {
	suspicious := []string{
		"<script>alert('XSS')</script>",
		"<SCRIPT>alert('XSS')</SCRIPT>",
		"javascript:alert('XSS')",
		"JAVASCRIPT:alert('XSS')",
		"<img onerror='alert(1)'>",
		"<div onclick='alert(1)'>",
		"<body onload='alert(1)'>",
		"data:text/html,<script>alert(1)</script>",
		"vbscript:msgbox",
		"width: expression(alert(1))",
		"eval('alert(1)')",
		"alert(document.cookie)",
		"confirm(1)",
		"prompt('x')",
		"window.location='evil.com'",
		"localStorage.getItem('token')",
		"sessionStorage.setItem('data')",
		"document.cookie",
		`<?xml version="1.0"?>`,
		`<!ENTITY xxe SYSTEM "file:///etc/passwd">`,
		"<![CDATA[ x ]]>",
		"ｊａｖａｓｃｒｉｐｔ:alert(1)",
	}
	for _, in := range suspicious {
		t.Run(in, func(t *testing.T) {
			assert.True(t, HasSuspiciousContent(in))
		})
	}

	safe := []string{
		"",
		"Обычный текст статьи",
		"Email: user@example.com",
		"Цена: 100$",
		"Заголовок о Go и конкурентности",
		"1' OR '1'='1",
	}
	for _, in := range safe {
		t.Run("safe "+in, func(t *testing.T) {
			assert.False(t, HasSuspiciousContent(in))
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		want       string
		notContain []string
	}{
		{
			name: "empty passes through",
			in:   "",
			want: "",
		},
		{
			name: "plain cyrillic unchanged",
			in:   "Обычный текст без опасных элементов",
			want: "Обычный текст без опасных элементов",
		},
		{
			name:       "script element removed with its content",
			in:         "<script>alert('XSS')</script>Hello",
			want:       "Hello",
			notContain: []string{"<script>", "alert"},
		},
		{
			name:       "encoded payload decoded then stripped",
			in:         "&lt;script&gt;alert('XSS')&lt;/script&gt;",
			want:       "",
			notContain: []string{"script", "alert"},
		},
		{
			name:       "javascript protocol scrubbed",
			in:         "javascript:alert('XSS')",
			notContain: []string{"javascript:"},
		},
		{
			name:       "event handler attribute removed",
			in:         "<img onerror='alert(1)' src='x'>",
			want:       "",
			notContain: []string{"onerror"},
		},
		{
			name: "formatting tags stripped, text kept",
			in:   "  <p>Первый <b>жирный</b> абзац</p>  ",
			want: "Первый жирный абзац",
		},
		{
			name: "style and iframe contents dropped",
			in:   "<style>body{}</style>текст<iframe src=x>inner</iframe>",
			want: "текст",
		},
		{
			name:       "residual handler text scrubbed",
			in:         "click onmouseover=steal()",
			notContain: []string{"onmouseover="},
		},
		{
			name: "entities in prose decoded",
			in:   "Tom &amp; Jerry",
			want: "Tom &amp; Jerry",
		},
		{
			name:       "double encoded tags stay escaped",
			in:         "&amp;lt;b&amp;gt;bold&amp;lt;/b&amp;gt; &amp;lt;a href=x&amp;gt;link&amp;lt;/a&amp;gt;",
			want:       "&lt;b&gt;bold&lt;/b&gt; &lt;a href=x&gt;link&lt;/a&gt;",
			notContain: []string{"<b>", "<a ", "</a>"},
		},
		{
			name:       "literal angle brackets in prose escaped",
			in:         "a &lt; b &amp;lt;i&amp;gt;",
			want:       "a &lt; b &lt;i&gt;",
			notContain: []string{"<"},
		},
		{
			name: "quotes kept literal",
			in:   `Он сказал: "привет"`,
			want: `Он сказал: "привет"`,
		},
		{
			name: "sql-looking text survives",
			in:   "Текст с '; DROP TABLE posts; -- инъекцией",
			want: "Текст с '; DROP TABLE posts; -- инъекцией",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.in)
			if tt.want != "" || tt.in == "" {
				assert.Equal(t, tt.want, got)
			}
			for _, s := range tt.notContain {
				assert.NotContains(t, got, s)
			}
		})
	}
}
