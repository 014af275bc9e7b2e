package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bitbucket.org/kleinnic74/photomap/screens"
	"github.com/gorilla/mux"
)

type PermissionsHandler struct {
	permissions *screens.Permissions
}

func NewPermissionsHandler(permissions *screens.Permissions) *PermissionsHandler {
	return &PermissionsHandler{permissions: permissions}
}

func (p *PermissionsHandler) InitRoutes(r *mux.Router) {
	r.HandleFunc("/permissions/{capability}", p.report).Methods("PUT")
	r.HandleFunc("/permissions", p.getStates).Methods("GET")
}

type permissionReport struct {
	Granted *bool `json:"granted"`
}

func (p *PermissionsHandler) report(w http.ResponseWriter, r *http.Request) {
	capability, err := screens.ParseCapability(mux.Vars(r)["capability"])
	if err != nil {
		Respond(r).WithError(w, http.StatusNotFound, err)
		return
	}
	var report permissionReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil || report.Granted == nil {
		Respond(r).WithError(w, http.StatusBadRequest, fmt.Errorf("expected {\"granted\": true|false}"))
		return
	}
	p.permissions.Report(r.Context(), capability, *report.Granted)
	Respond(r).WithJSON(w, http.StatusOK, p.permissions.States())
}

func (p *PermissionsHandler) getStates(w http.ResponseWriter, r *http.Request) {
	Respond(r).WithJSON(w, http.StatusOK, p.permissions.States())
}
