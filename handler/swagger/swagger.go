package swagger

import (
	"net/http"

	"github.com/mager/chordlegend/docs"
	"github.com/mager/chordlegend/util"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// DocHandler serves the OpenAPI document.
type DocHandler struct {
	log *zap.SugaredLogger
}

func (*DocHandler) Pattern() string {
	return "/swagger/doc.json"
}

func (*DocHandler) Methods() []string {
	return []string{http.MethodGet}
}

func NewDocHandler(log *zap.SugaredLogger) *DocHandler {
	return &DocHandler{log: log}
}

func (h *DocHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		h.log.Errorw("Failed to render swagger doc", "error", err)
		util.WriteError(w, http.StatusInternalServerError, "failed to render api docs")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
