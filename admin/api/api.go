package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatsched/chatsched/config"
	"github.com/chatsched/chatsched/model"
	"github.com/chatsched/chatsched/pkg/errs"
	"github.com/chatsched/chatsched/pkg/http/middlewares"
	"github.com/chatsched/chatsched/pkg/http/response"
	"github.com/chatsched/chatsched/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const MsgNotFound = "not found"

type API struct {
	cfg         *config.Config
	srv         *service.Service
	log         *zap.SugaredLogger
	middlewares []mux.MiddlewareFunc
}

type Options struct {
	Config      *config.Config
	Service     *service.Service
	Log         *zap.SugaredLogger
	Middlewares []mux.MiddlewareFunc
}

func NewAPI(opts Options) *API {
	log := opts.Log
	if log == nil {
		log = zap.S()
	}
	return &API{
		cfg:         opts.Config,
		srv:         opts.Service,
		log:         log.Named("admin"),
		middlewares: opts.Middlewares,
	}
}

// param returns the value of an url variable
func (api *API) param(r *http.Request, variable string) string {
	return mux.Vars(r)[variable]
}

// query returns the url query value if it exists.
func (api *API) query(r *http.Request, name string) string {
	return r.URL.Query().Get(name)
}

func (api *API) json(code int, w http.ResponseWriter, data interface{}) {
	response.JSON(w, code, data)
}

func (api *API) bind(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewValidateError(errors.New("invalid request body: " + err.Error()))
	}
	return nil
}

// error writes an explicit failure result for expected errors and panics otherwise.
func (api *API) error(w http.ResponseWriter, err error) {
	var validateErr *errs.ValidateError
	var deliveryErr *service.DeliveryError
	switch {
	case errors.As(err, &validateErr):
		api.json(400, w, model.Failure(validateErr.Detail()))
	case errors.Is(err, errs.ErrNotFound):
		api.json(404, w, model.Failure(err.Error()))
	case errors.Is(err, errs.ErrConflict):
		api.json(409, w, model.Failure(err.Error()))
	case errors.As(err, &deliveryErr):
		api.json(422, w, model.Failure(err.Error()))
	default:
		panic(err)
	}
}

func (api *API) assert(err error) {
	if err != nil {
		panic(err)
	}
}

// Handler returns a http.Handler
func (api *API) Handler() http.Handler {
	r := mux.NewRouter()

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, 404, model.Failure(MsgNotFound))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, 405, model.Failure("method not allowed"))
	})

	for _, m := range api.middlewares {
		r.Use(m)
	}
	r.Use(middlewares.NewRecovery(api.log, nil).Handle)

	r.HandleFunc("/", api.Index).Methods("GET")

	r.HandleFunc("/workspace/connect", api.ConnectWorkspace).Methods("POST")
	r.HandleFunc("/channels", api.ListChannels).Methods("GET")
	r.HandleFunc("/messages", api.SendMessage).Methods("POST")

	r.HandleFunc("/scheduled-messages", api.ListScheduledMessages).Methods("GET")
	r.HandleFunc("/scheduled-messages", api.ScheduleMessage).Methods("POST")
	r.HandleFunc("/scheduled-messages/{id}", api.GetScheduledMessage).Methods("GET")
	r.HandleFunc("/scheduled-messages/{id}/cancel", api.CancelScheduledMessage).Methods("POST")

	return r
}
