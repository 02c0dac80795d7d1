package response

import (
	"encoding/json"
	"net/http"

	"github.com/chatsched/chatsched"
)

var defaultHeaders = map[string]string{
	"Server": "chatsched/" + chatsched.VERSION,
}

func JSON(w http.ResponseWriter, code int, data interface{}) {
	writeJSON(w, code, data, false)
}

func PrettyJSON(w http.ResponseWriter, code int, data interface{}) {
	writeJSON(w, code, data, true)
}

func writeJSON(w http.ResponseWriter, code int, data interface{}, pretty bool) {
	for name, value := range defaultHeaders {
		w.Header().Set(name, value)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	w.WriteHeader(code)

	if data == nil {
		return
	}

	var bytes []byte
	switch v := data.(type) {
	case string:
		bytes = []byte(v)
	default:
		var err error
		if pretty {
			bytes, err = json.MarshalIndent(data, "", "  ")
		} else {
			bytes, err = json.Marshal(data)
		}
		if err != nil {
			panic(err)
		}
	}
	_, err := w.Write(bytes)
	if err != nil {
		panic(err)
	}
}

func Text(w http.ResponseWriter, code int, body string) {
	for name, value := range defaultHeaders {
		w.Header().Set(name, value)
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	_, err := w.Write([]byte(body))
	if err != nil {
		panic(err)
	}
}
