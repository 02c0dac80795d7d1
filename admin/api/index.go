package api

import (
	"net/http"

	"github.com/chatsched/chatsched"
	"github.com/chatsched/chatsched/model"
)

func (api *API) Index(w http.ResponseWriter, r *http.Request) {
	var response model.IndexResult

	response.Version = chatsched.VERSION
	response.Message = "Welcome to chatsched"

	api.json(200, w, response)
}
