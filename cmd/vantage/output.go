package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/vantagepoint/vantage-admin/internal/client"
	"github.com/vantagepoint/vantage-admin/internal/domain"
	domainerrors "github.com/vantagepoint/vantage-admin/internal/errors"
	"github.com/vantagepoint/vantage-admin/internal/service"
)

const sessionExpiredMessage = "Сессия истекла. Выполните vantage login"

// writeError prints err the way a form would show it: one line per field
// message, or the banner lines of a request failure.
func writeError(w io.Writer, err error) {
	state := service.StateFromError(err)
	switch {
	case state.Expired:
		fmt.Fprintln(w, sessionExpiredMessage)
	case len(state.Fields) > 0:
		for _, field := range slices.Sorted(maps.Keys(state.Fields)) {
			fmt.Fprintf(w, "%s: %s\n", field, state.Fields[field].Message)
		}
	default:
		var derr *domainerrors.DomainError
		if errors.As(err, &derr) {
			if state.Banner == "" {
				state.Banner = derr.Error()
			}
			fmt.Fprintln(w, state.Banner)
			return
		}
		for _, line := range client.ErrorLines(err) {
			fmt.Fprintln(w, line)
		}
	}
}

type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	fmt.Fprintln(t.tw, strings.Join(headers, "\t"))
	return t
}

func (t *table) row(cols ...any) {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

func writePagination(w io.Writer, p client.Pagination) {
	fmt.Fprintf(w, "\nстраница %d из %d, всего %d\n", p.CurrentPage, p.PageCount, p.TotalCount)
}

// readUpload loads a file given on the command line. An empty path means no file.
func readUpload(path string) (*domain.Upload, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- path is a command-line argument
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &domain.Upload{Filename: filepath.Base(path), ContentType: contentType, Data: data}, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func imageURL(img *domain.Image) string {
	if img == nil {
		return "-"
	}
	return img.URL
}
