package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/classroom-auth/internal/config"
	"github.com/dtroode/classroom-auth/internal/model"
)

// TLSListener opens TLS listeners from a certificate and key on disk.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

// NewTLSListener creates a new TLSListener instance.
//
// Parameters:
//   - certFileName: Path to the TLS certificate file
//   - privateKeyFileName: Path to the private key file
func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the key pair and opens a TLS listener on addr.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return tls.Listen(protocol, addr, tlsConfig)
}

// PlainListener opens unencrypted listeners. The OAuth loopback receiver
// always uses it.
type PlainListener struct{}

// NewPlainListener creates a new PlainListener instance.
func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

// Listen opens a plain listener on addr.
func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}

// SecurityLayerFor picks the listener kind configured for the dev server.
func SecurityLayerFor(cfg config.DevServer) model.SecurityLayer {
	if cfg.EnableHTTPS {
		return NewTLSListener(cfg.CertFileName, cfg.PrivateKeyFileName)
	}
	return NewPlainListener()
}

// BoundListener hands out a listener opened in advance, so callers can be
// sure the port accepts connections before Start runs.
type BoundListener struct {
	ln net.Listener
}

// Bind opens addr through layer right away.
func Bind(layer model.SecurityLayer, addr string) (*BoundListener, error) {
	ln, err := layer.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &BoundListener{ln: ln}, nil
}

// Listen returns the bound listener regardless of its arguments.
func (l *BoundListener) Listen(_, _ string) (net.Listener, error) {
	return l.ln, nil
}

// Addr is the actual address of the bound listener.
func (l *BoundListener) Addr() net.Addr {
	return l.ln.Addr()
}
