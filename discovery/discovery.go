// Package discovery announces the service on the local network over mDNS
// and keeps track of the other photomap instances it sees.
package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"bitbucket.org/kleinnic74/photomap/consts"
	"bitbucket.org/kleinnic74/photomap/logging"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"
)

type Peer struct {
	Name       string            `json:"name"`
	URL        string            `json:"url"`
	Type       string            `json:"service"`
	Properties map[string]string `json:"properties,omitempty"`
	IsSelf     bool              `json:"self,omitempty"`
}

func propertiesAsTXT(p map[string]string) (txt []string) {
	for k, v := range p {
		txt = append(txt, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(txt)
	return
}

func propertiesFromTXT(txt []string) (p map[string]string) {
	p = make(map[string]string)
	for _, kv := range txt {
		parts := strings.SplitN(kv, "=", 2)
		if parts[0] == "" {
			continue
		}
		if len(parts) == 2 {
			p[parts[0]] = parts[1]
		} else {
			p[parts[0]] = ""
		}
	}
	return
}

// Announcer publishes the service and browses for peers until its context
// ends
type Announcer struct {
	name       string
	port       int
	properties map[string]string

	lock  sync.RWMutex
	peers map[string]Peer
}

func NewAnnouncer(name string, port int, properties map[string]string) *Announcer {
	return &Announcer{
		name:       name,
		port:       port,
		properties: properties,
		peers:      make(map[string]Peer),
	}
}

// Run blocks until ctx is done
func (a *Announcer) Run(ctx context.Context) error {
	logger, ctx := logging.SubFrom(ctx, "discovery")
	server, err := zeroconf.Register(a.name, consts.ServiceName, "local.", a.port, propertiesAsTXT(a.properties), nil)
	if err != nil {
		return fmt.Errorf("publish mDNS service: %w", err)
	}
	defer server.Shutdown()
	logger.Info("Service published", zap.String("service", consts.ServiceName), zap.String("name", a.name), zap.Int("port", a.port))

	resolver, err := zeroconf.NewResolver()
	if err != nil {
		return fmt.Errorf("create mDNS resolver: %w", err)
	}
	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, consts.ServiceName, "local.", entries); err != nil {
		return fmt.Errorf("browse mDNS services: %w", err)
	}
	for {
		select {
		case e, ok := <-entries:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if e != nil {
				a.peerDiscovered(ctx, e)
			}
		case <-ctx.Done():
			logger.Info("Service withdrawn")
			return nil
		}
	}
}

func (a *Announcer) peerDiscovered(ctx context.Context, e *zeroconf.ServiceEntry) {
	peer := Peer{
		Name:       e.Instance,
		Type:       e.Service,
		URL:        asURL(e),
		Properties: propertiesFromTXT(e.Text),
		IsSelf:     e.Instance == a.name,
	}
	a.lock.Lock()
	_, known := a.peers[peer.Name]
	a.peers[peer.Name] = peer
	a.lock.Unlock()
	if !known {
		logging.From(ctx).Info("Peer detected",
			zap.String("peer.instance", peer.Name),
			zap.String("peer.URL", peer.URL),
			zap.String("peer.hostname", e.HostName),
			zap.Bool("self", peer.IsSelf))
	}
}

func asURL(e *zeroconf.ServiceEntry) string {
	if len(e.AddrIPv4) > 0 {
		return fmt.Sprintf("http://%s:%d", e.AddrIPv4[0], e.Port)
	}
	if len(e.AddrIPv6) > 0 {
		return fmt.Sprintf("http://[%s]:%d", e.AddrIPv6[0], e.Port)
	}
	return ""
}

// Peers returns the instances seen so far, sorted by name
func (a *Announcer) Peers() []Peer {
	a.lock.RLock()
	defer a.lock.RUnlock()
	peers := make([]Peer, 0, len(a.peers))
	for _, p := range a.peers {
		peers = append(peers, p)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].Name < peers[j].Name })
	return peers
}
