package storage

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInMemorySFTP(t *testing.T) *sftp.Client {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	server := sftp.NewRequestServer(serverConn, sftp.InMemHandler())
	go func() { _ = server.Serve() }()

	client, err := sftp.NewClientPipe(clientConn, clientConn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return client
}

func TestCopyRemote(t *testing.T) {
	client := newInMemorySFTP(t)
	const export = "id,first_name,last_name,avg_rating\n1,Ada,Lovelace,4.8\n"

	f, err := client.Create("/ratings.csv")
	require.NoError(t, err)
	_, err = f.Write([]byte(export))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var buf bytes.Buffer
	n, err := copyRemote(context.Background(), client, "/ratings.csv", &buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(export), n)
	assert.Equal(t, export, buf.String())

	_, err = copyRemote(context.Background(), client, "/missing.csv", &buf)
	assert.ErrorContains(t, err, "sftp: open /missing.csv")
}

func TestFetchSFTPValidatesConfig(t *testing.T) {
	_, err := FetchSFTP(context.Background(), SFTPConfig{Host: "drop.example.edu"}, "/ratings.csv", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrSFTPNotConfigured)

	_, err = FetchSFTP(context.Background(), SFTPConfig{Host: "drop.example.edu", User: "u", Password: "p"}, "/ratings.csv", &bytes.Buffer{})
	assert.ErrorContains(t, err, "known hosts file required")
}
