package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/pkg/config"
)

// Prefirmar es local: no requiere red ni un bucket real.
func TestS3Archive_PresignGet(t *testing.T) {
	a, err := NewS3Archive(context.Background(), config.S3Config{
		Bucket:          "recibos-optica",
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	url, err := a.PresignGet(context.Background(), "recibos/2026/03/abc.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "recibos-optica")
	assert.Contains(t, url, "recibos/2026/03/abc.pdf")
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}
