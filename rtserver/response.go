package rtserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// result is the server's answer to one request: an adaptation of tunaq's
// EndpointResult/jsonOK/jsonErr family (server/response.go) so every handler
// here returns a value instead of writing to the ResponseWriter directly,
// keeping logging and header-setting in one place.
type result struct {
	status      int
	internalMsg string
	isErr       bool
	resp        interface{}
	hdrs        [][2]string
}

func jsonOK(resp interface{}, internalMsg string, v ...interface{}) result {
	return result{status: http.StatusOK, resp: resp, internalMsg: fmt.Sprintf(internalMsg, v...)}
}

func jsonBadRequest(userMsg string, internalMsg string, v ...interface{}) result {
	return result{
		status:      http.StatusBadRequest,
		isErr:       true,
		resp:        errorResponse{Error: userMsg, Status: http.StatusBadRequest},
		internalMsg: fmt.Sprintf(internalMsg, v...),
	}
}

func jsonUnauthorized(userMsg string, internalMsg string, v ...interface{}) result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return result{
		status:      http.StatusUnauthorized,
		isErr:       true,
		resp:        errorResponse{Error: userMsg, Status: http.StatusUnauthorized},
		internalMsg: fmt.Sprintf(internalMsg, v...),
		hdrs:        [][2]string{{"WWW-Authenticate", `Bearer realm="rtserver"`}},
	}
}

func jsonNotFound(internalMsg string, v ...interface{}) result {
	return result{
		status:      http.StatusNotFound,
		isErr:       true,
		resp:        errorResponse{Error: "The requested resource was not found", Status: http.StatusNotFound},
		internalMsg: fmt.Sprintf(internalMsg, v...),
	}
}

func jsonInternalServerError(internalMsg string, v ...interface{}) result {
	return result{
		status:      http.StatusInternalServerError,
		isErr:       true,
		resp:        errorResponse{Error: "An internal server error occurred", Status: http.StatusInternalServerError},
		internalMsg: fmt.Sprintf(internalMsg, v...),
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func (r result) write(w http.ResponseWriter, req *http.Request) {
	respBytes, err := json.Marshal(r.resp)
	if err != nil {
		jsonInternalServerError("could not marshal JSON response: %s", err.Error()).write(w, req)
		return
	}

	if r.isErr {
		log.Printf("ERROR %s %s [%s]: HTTP-%d %s", req.Method, req.URL.Path, requestIDFrom(req), r.status, r.internalMsg)
	} else {
		log.Printf("INFO  %s %s [%s]: HTTP-%d %s", req.Method, req.URL.Path, requestIDFrom(req), r.status, r.internalMsg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.status)
	_, _ = w.Write(respBytes)
}
