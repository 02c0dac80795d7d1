package api

import (
	"net/http"
	"time"

	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/model"
	"github.com/chatsched/chatsched/pkg/errs"
)

func (api *API) ListScheduledMessages(w http.ResponseWriter, r *http.Request) {
	var status *entities.MessageStatus
	if s := api.query(r, "status"); s != "" {
		v, err := entities.ParseMessageStatus(s)
		if err != nil {
			api.error(w, errs.NewValidateFieldsError(errs.ErrRequestValidate, map[string]interface{}{
				"status": err.Error(),
			}))
			return
		}
		status = &v
	}

	messages, err := api.srv.ListScheduled(r.Context(), status)
	api.assert(err)

	if messages == nil {
		messages = []*entities.ScheduledMessage{}
	}
	api.json(200, w, model.MessagesResult{Result: model.OK(), Messages: messages})
}

func (api *API) GetScheduledMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := api.srv.GetScheduled(r.Context(), api.param(r, "id"))
	if err != nil {
		api.error(w, err)
		return
	}

	api.json(200, w, model.MessageResult{Result: model.OK(), Message: msg})
}

func (api *API) ScheduleMessage(w http.ResponseWriter, r *http.Request) {
	var req model.ScheduleRequest
	if err := api.bind(r, &req); err != nil {
		api.error(w, err)
		return
	}

	var at time.Time
	if req.ScheduledTime != nil {
		at = req.ScheduledTime.Time
	}
	msg, err := api.srv.Schedule(r.Context(), req.ChannelID, req.Content, at)
	if err != nil {
		api.error(w, err)
		return
	}

	api.json(201, w, model.ScheduleResult{Result: model.OK(), MessageID: msg.ID})
}

func (api *API) CancelScheduledMessage(w http.ResponseWriter, r *http.Request) {
	if err := api.srv.Cancel(r.Context(), api.param(r, "id")); err != nil {
		api.error(w, err)
		return
	}

	api.json(200, w, model.OK())
}
