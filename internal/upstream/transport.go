package upstream

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/trainticket/config"
	"github.com/spiffe/go-spiffe/v2/bundle/x509bundle"
	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/spiffe/go-spiffe/v2/spiffetls/tlsconfig"
	"github.com/spiffe/go-spiffe/v2/svid/x509svid"
)

type staticSVID struct {
	svid *x509svid.SVID
}

func (s staticSVID) GetX509SVID() (*x509svid.SVID, error) {
	return s.svid, nil
}

// NewHTTPClient builds the shared outbound client. With TLS configured every
// call presents the local SVID and only accepts peers from the trust domain.
func NewHTTPClient(cfg config.TLSConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 32
	transport.IdleConnTimeout = 90 * time.Second

	if cfg.Enabled() {
		svid, err := x509svid.Load(cfg.SVIDCert, cfg.SVIDKey)
		if err != nil {
			return nil, fmt.Errorf("load svid: %w", err)
		}
		td, err := spiffeid.TrustDomainFromString(cfg.TrustDomain)
		if err != nil {
			return nil, fmt.Errorf("parse trust domain: %w", err)
		}
		bundle, err := x509bundle.Load(td, cfg.Bundle)
		if err != nil {
			return nil, fmt.Errorf("load bundle: %w", err)
		}
		transport.TLSClientConfig = tlsconfig.MTLSClientConfig(staticSVID{svid: svid}, bundle, tlsconfig.AuthorizeMemberOf(td))
	}

	return &http.Client{Transport: transport}, nil
}
