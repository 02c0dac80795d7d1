package api

import (
	"net/http"

	"github.com/chatsched/chatsched/model"
)

func (api *API) ConnectWorkspace(w http.ResponseWriter, r *http.Request) {
	workspace, err := api.srv.Connect(r.Context())
	api.assert(err)

	api.json(200, w, model.ConnectResult{Result: model.OK(), Workspace: workspace})
}
