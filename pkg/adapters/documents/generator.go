// Package documents generates quote documents: the PDF is rendered by an HTTP
// service, stored in S3 and handed out as a presigned download URL.
package documents

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/segmentio/ksuid"
)

const (
	DefaultKeyPrefix = "quotes"
	DefaultURLTTL    = 7 * 24 * time.Hour
)

type Renderer interface {
	Render(ctx context.Context, templateID string, contact *models.Contact, measurement float64) ([]byte, error)
}

type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Generator implements protocol.DocumentGenerator.
type Generator struct {
	renderer  Renderer
	uploader  Uploader
	presigner Presigner
	bucket    string
	keyPrefix string
	urlTTL    time.Duration
}

type Option func(*Generator)

func WithKeyPrefix(prefix string) Option {
	return func(g *Generator) {
		g.keyPrefix = prefix
	}
}

func WithURLTTL(ttl time.Duration) Option {
	return func(g *Generator) {
		if ttl > 0 {
			g.urlTTL = ttl
		}
	}
}

func NewGenerator(renderer Renderer, uploader Uploader, presigner Presigner, bucket string, opts ...Option) *Generator {
	g := &Generator{
		renderer:  renderer,
		uploader:  uploader,
		presigner: presigner,
		bucket:    bucket,
		keyPrefix: DefaultKeyPrefix,
		urlTTL:    DefaultURLTTL,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// NewS3Generator wires the generator to S3 using the default AWS credential chain.
func NewS3Generator(ctx context.Context, renderer Renderer, bucket string, opts ...Option) (*Generator, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return NewGenerator(renderer, client, s3.NewPresignClient(client), bucket, opts...), nil
}

func (g *Generator) Generate(ctx context.Context, templateID string, contact *models.Contact, measurement float64) (*models.Document, error) {
	pdf, err := g.renderer.Render(ctx, templateID, contact, measurement)
	if err != nil {
		return nil, err
	}

	key := g.objectKey(contact)

	_, err = g.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload document %s: %w", key, err)
	}

	signed, err := g.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(g.urlTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to sign document url %s: %w", key, err)
	}

	return &models.Document{URL: signed.URL, StoragePath: key}, nil
}

// objectKey groups documents per contact; ksuid keeps them in creation order.
func (g *Generator) objectKey(contact *models.Contact) string {
	owner := contact.ID
	if owner == "" {
		owner = "anonymous"
	}

	return path.Join(g.keyPrefix, owner, ksuid.New().String()+".pdf")
}
