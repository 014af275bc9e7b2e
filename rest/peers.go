package rest

import (
	"net/http"

	"bitbucket.org/kleinnic74/photomap/discovery"
	"github.com/gorilla/mux"
)

type PeersAPI struct {
	announcer *discovery.Announcer
}

func NewPeersAPI(announcer *discovery.Announcer) *PeersAPI {
	return &PeersAPI{announcer}
}

func (p *PeersAPI) InitRoutes(r *mux.Router) {
	r.HandleFunc("/peers", p.getPeers).Methods(http.MethodGet)
}

func (p *PeersAPI) getPeers(w http.ResponseWriter, r *http.Request) {
	Respond(r).WithJSON(w, http.StatusOK, p.announcer.Peers())
}
