// internal/controller/diner_controller.go
package controller

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/service"
)

// DinerController serves stateless directory reads.
type DinerController struct {
	Directory   *service.Directory
	Suggestions []model.Suggestion
	Log         logrus.FieldLogger
}

// ListDiners filters the roster by the query string: search, city and repeated interest.
func (c *DinerController) ListDiners(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := model.Selection{
		Search:    q.Get("search"),
		City:      q.Get("city"),
		Interests: q["interest"],
	}

	res, err := c.Directory.Search(r.Context(), sel)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (c *DinerController) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.Directory.Options())
}

func (c *DinerController) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": c.Suggestions})
}
