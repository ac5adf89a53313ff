package probe

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"time"

	"github.com/prosecnetworks/sentinel/pkg/types"
)

const tlsDialTimeout = 10 * time.Second

// hybridCipherTokens mark cipher or key-exchange names that indicate a
// hybrid post-quantum deployment. Matching is substring on the uppercased
// negotiated cipher name.
var hybridCipherTokens = []string{
	"CECPQ2",
	"KYBER",
	"ML-KEM",
	"MLKEM",
	"NTRU",
	"SIKE",
	"X25519MLKEM",
}

// CheckTLS opens a TLS connection to hostname:443 with the platform trust
// store and captures the negotiated posture. Every connection, handshake
// or certificate failure yields the sentinel record, never an error: an
// unreachable TLS endpoint is a finding, not a fault.
func CheckTLS(ctx context.Context, hostname string) types.TLSRecord {
	dialer := &net.Dialer{Timeout: tlsDialTimeout}

	conn, err := (&tls.Dialer{
		NetDialer: dialer,
		Config: &tls.Config{
			ServerName: hostname,
			MinVersion: tls.VersionTLS10, // observe weak endpoints rather than refuse them
		},
	}).DialContext(ctx, "tcp", net.JoinHostPort(hostname, "443"))
	if err != nil {
		return types.FailedTLS()
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return types.FailedTLS()
	}
	state := tlsConn.ConnectionState()

	record := types.TLSRecord{
		Valid:       true,
		Issuer:      "Unknown",
		Protocol:    tls.VersionName(state.Version),
		CipherSuite: tls.CipherSuiteName(state.CipherSuite),
	}

	if len(state.PeerCertificates) > 0 {
		issuer := state.PeerCertificates[0].Issuer
		if len(issuer.Organization) > 0 {
			record.Issuer = issuer.Organization[0]
		} else if issuer.CommonName != "" {
			record.Issuer = issuer.CommonName
		}
	}

	record.QuantumSafe = IsQuantumSafeCipher(record.CipherSuite)
	return record
}

// IsQuantumSafeCipher reports whether a negotiated cipher name carries a
// hybrid-PQC marker token.
func IsQuantumSafeCipher(cipherName string) bool {
	upper := strings.ToUpper(cipherName)
	for _, token := range hybridCipherTokens {
		if strings.Contains(upper, token) {
			return true
		}
	}
	return false
}
