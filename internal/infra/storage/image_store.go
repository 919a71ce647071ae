package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/service-marketplace/internal/config"
)

const (
	maxDimension = 1600
	webpQuality  = 80
	keyPrefix    = "uploads/"
)

var ErrUnsupportedImage = errors.New("unsupported image")

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageStore reencoda imagens enviadas para webp e grava no bucket.
type ImageStore struct {
	client    objectPutter
	bucket    string
	publicURL string
	log       *zap.Logger
}

func NewImageStore(cfg *config.Config, log *zap.Logger) *ImageStore {
	opts := s3.Options{
		Region: cfg.S3Region,
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	if cfg.S3Endpoint != "" {
		// minio e afins
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	publicURL := strings.TrimRight(cfg.S3PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &ImageStore{
		client:    s3.New(opts),
		bucket:    cfg.S3Bucket,
		publicURL: publicURL,
		log:       log,
	}
}

// Upload devolve a URL pública do objeto gravado.
func (s *ImageStore) Upload(ctx context.Context, r io.Reader) (string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, fit(src, maxDimension), &webp.Options{Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	key := keyPrefix + uuid.NewString() + ".webp"
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	s.log.Info("image uploaded",
		zap.String("key", key),
		zap.String("source_format", format),
		zap.Int("bytes", buf.Len()),
	)
	return s.publicURL + "/" + key, nil
}

// fit reduz a imagem para caber em max x max mantendo a proporção.
func fit(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := scaledSize(b.Dx(), b.Dy(), max)
	if w == b.Dx() && h == b.Dy() {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func scaledSize(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		nh := h * max / w
		if nh < 1 {
			nh = 1
		}
		return max, nh
	}
	nw := w * max / h
	if nw < 1 {
		nw = 1
	}
	return nw, max
}
