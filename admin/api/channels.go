package api

import (
	"net/http"

	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/model"
)

func (api *API) ListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := api.srv.ListChannels(r.Context())
	api.assert(err)

	if channels == nil {
		channels = []*entities.Channel{}
	}
	api.json(200, w, model.ChannelsResult{Result: model.OK(), Channels: channels})
}

func (api *API) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req model.SendRequest
	if err := api.bind(r, &req); err != nil {
		api.error(w, err)
		return
	}

	if err := api.srv.Send(r.Context(), req.ChannelID, req.Content); err != nil {
		api.error(w, err)
		return
	}

	api.json(200, w, model.OK())
}
