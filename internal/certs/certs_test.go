package certs

import (
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateCertificate_Generates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	m := NewFileManager(dir)

	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	require.NotEmpty(t, cert.Certificate)

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	assert.NoError(t, leaf.VerifyHostname("localhost"))
	assert.NoError(t, leaf.VerifyHostname("127.0.0.1"))

	info, err := os.Stat(filepath.Join(dir, "localhost.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.FileExists(t, m.CertFile())
}

func TestGetOrCreateCertificate_Reuses(t *testing.T) {
	m := NewFileManager(t.TempDir())

	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	assert.Equal(t, first.Certificate[0], second.Certificate[0])
}

func TestGetOrCreateCertificate_RenewsNearExpiry(t *testing.T) {
	m := NewFileManager(t.TempDir())

	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(Validity - 24*time.Hour) }
	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	assert.NotEqual(t, first.Certificate[0], second.Certificate[0])
}

func TestGetOrCreateCertificate_ReplacesCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "localhost.crt"), []byte("junk"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "localhost.key"), []byte("junk"), 0600))

	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Certificate)
}
