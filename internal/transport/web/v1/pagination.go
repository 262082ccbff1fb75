package v1

import (
	"net/http"
	"strconv"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

// PageFromRequest читает limit/offset из query; мусор и выход за границы
// нормализуются доменом.
func PageFromRequest(r *http.Request) domain.Page {
	var p domain.Page
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			p.Limit = n
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			p.Offset = n
		}
	}
	return p.Normalize()
}
