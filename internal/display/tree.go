package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/menu"
)

// WriteTree prints nodes as an indented outline, one item per line:
//
//	- Главная [home] #0
//	  - О нас [about] #0 -> /about
func WriteTree(w io.Writer, nodes []*domain.MenuNode) error {
	var err error
	menu.Walk(nodes, func(n *domain.MenuNode, depth int) {
		if err != nil {
			return
		}
		line := fmt.Sprintf("%s- %s [%s] #%d", strings.Repeat("  ", depth), n.Name, n.ID, n.Sort)
		if link := nodeLink(n); link != "" {
			line += " -> " + link
		}
		_, err = fmt.Fprintln(w, line)
	})
	return err
}

func nodeLink(n *domain.MenuNode) string {
	if n.CustomURL != "" {
		return n.CustomURL
	}
	return n.Route
}
