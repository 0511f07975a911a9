package postgres

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/pkg/config"
)

func TestBuildPoolConfig_ConservaHostnameParaVerifyFull(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgres://u:p@db.optica.test:5432/optigestion?sslmode=verify-full",
		ForceIPv4:   true,
	}
	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.optica.test", pc.ConnConfig.Host)
	require.NotNil(t, pc.ConnConfig.TLSConfig)
	assert.Equal(t, "db.optica.test", pc.ConnConfig.TLSConfig.ServerName)
	assert.EqualValues(t, 25, pc.MaxConns)
}

func TestBuildPoolConfig_DesdeCamposSueltos(t *testing.T) {
	pc, err := buildPoolConfig(config.DBConfig{
		Host: "localhost", Port: 5433, User: "optica", Password: "p@ss word",
		DBName: "optigestion", SSLMode: "disable", MaxConns: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "localhost", pc.ConnConfig.Host)
	assert.EqualValues(t, 5433, pc.ConnConfig.Port)
	assert.Equal(t, "p@ss word", pc.ConnConfig.Password)
	assert.EqualValues(t, 4, pc.MaxConns)
}

func TestDialIPv4_UsaLaIPv4Resuelta(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		if c, err := ln.Accept(); err == nil {
			c.Close()
		}
	}()
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	var asked string
	dial := dialIPv4(func(_ context.Context, network, host string) ([]net.IP, error) {
		assert.Equal(t, "ip4", network)
		asked = host
		return []net.IP{net.ParseIP("127.0.0.1")}, nil
	})
	conn, err := dial(context.Background(), "tcp", net.JoinHostPort("db.optica.test", port))
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "db.optica.test", asked)
	assert.Equal(t, ln.Addr().String(), conn.RemoteAddr().String())
}

func TestDialIPv4_ErrorDeResolucion(t *testing.T) {
	dial := dialIPv4(func(context.Context, string, string) ([]net.IP, error) {
		return nil, errors.New("no such host")
	})
	_, err := dial(context.Background(), "tcp", "db.optica.test:5432")
	assert.ErrorContains(t, err, "no such host")

	_, err = dial(context.Background(), "tcp", "[::1]:5432")
	assert.Error(t, err)
}
