package render

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

const commitSignaturePrefix = "sshsig-v1"

// SignatureInfo is what a commit page shows about a signed commit.
type SignatureInfo struct {
	Algorithm   string // signature format, e.g. ssh-ed25519
	Fingerprint string // SHA256 fingerprint of the signing key
}

// ParseSignature decodes a commit signature string
// ("sshsig-v1:<format>:<pubkey-b64>:<sig-b64>") far enough to display the
// signing key. The signature itself is not verified here.
func ParseSignature(sig string) (*SignatureInfo, error) {
	parts := strings.SplitN(sig, ":", 4)
	if len(parts) != 4 || parts[0] != commitSignaturePrefix {
		return nil, fmt.Errorf("signature: unrecognized format")
	}

	pubBytes, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("signature: decode public key: %w", err)
	}
	pub, err := ssh.ParsePublicKey(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("signature: parse public key: %w", err)
	}

	return &SignatureInfo{
		Algorithm:   parts[1],
		Fingerprint: ssh.FingerprintSHA256(pub),
	}, nil
}
