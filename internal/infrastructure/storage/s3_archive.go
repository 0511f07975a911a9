// Package storage archivo de recibos de venta en S3.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/application/sales"
	"github.com/jhoicas/OptiGestion-api/pkg/config"
)

var _ sales.ReceiptArchive = (*S3Archive)(nil)

// S3Archive guarda objetos privados en un bucket y entrega URLs prefirmadas para leerlos.
type S3Archive struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Archive carga la configuración de AWS. Con AccessKeyID vacío se usa la cadena de
// credenciales por defecto (variables de entorno, perfil, rol de la instancia).
func NewS3Archive(ctx context.Context, cfg config.S3Config) (*S3Archive, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: cargar configuración AWS: %w", err)
	}
	return newS3Archive(s3.NewFromConfig(awsCfg), cfg.Bucket), nil
}

func newS3Archive(client *s3.Client, bucket string) *S3Archive {
	return &S3Archive{client: client, presign: s3.NewPresignClient(client), bucket: bucket}
}

// Put sube body con la clave y el content type dados.
func (a *S3Archive) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3: subir %s: %w", key, err)
	}
	log.Debug().Str("bucket", a.bucket).Str("key", key).Int("bytes", len(body)).Msg("s3: objeto subido")
	return nil
}

// PresignGet URL de lectura válida durante ttl.
func (a *S3Archive) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := a.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("s3: prefirmar %s: %w", key, err)
	}
	return req.URL, nil
}
