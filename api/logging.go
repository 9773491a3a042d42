package api

import (
	"cctareport.com/engine/logger"
	"github.com/rs/zerolog"
	"net/http"
)

var defaultLogger = logger.NewLogger("API")

type endpointLoggerFields struct {
	Method string `json:"method"`
	Url    string `json:"url"`
}

const RequestInfoFieldsKey = "request_info"

func makeRequestLogger(request *http.Request) zerolog.Logger {
	fields := endpointLoggerFields{
		Method: request.Method,
		Url:    request.URL.String(),
	}
	return defaultLogger.
		With().Interface(RequestInfoFieldsKey, fields).Logger()
}

// fail logs the rejected request and writes an empty body with status.
func fail(w http.ResponseWriter, logger zerolog.Logger, err error, status int, msg string) {
	logger.Err(err).Int("status", status).Msg(msg)
	http.Error(w, "", status)
}
