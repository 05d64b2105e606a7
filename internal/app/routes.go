package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Schedule conversion
	r.HandleFunc("/api/convert", deps.ConvertHandler.Convert).Methods("POST")
}
