package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
	XLSX string
}{
	JSON: "application/json",
	Text: "text/plain; charset=utf-8",
	XLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%d bytes]: %s", len(message), err)
	}
}

func WriteResponseBytesOK(w http.ResponseWriter, contentType string, message []byte) {
	WriteResponseBytes(w, contentType, message, http.StatusOK)
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponseBytesOK(w, ContentType.Text, []byte(message))
}

// WriteJSON marshals the value and writes it with the given status code
func WriteJSON(w http.ResponseWriter, value any, statusCode int) {
	valueJson, err := json.Marshal(value)
	if err != nil {
		log.Errorf("marshal response value: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, valueJson, statusCode)
}

func WriteJSONOK(w http.ResponseWriter, value any) {
	WriteJSON(w, value, http.StatusOK)
}
