package config

import (
	"fmt"
	"strings"
)

// StorageConfig holds object storage settings for profile images.
type StorageConfig struct {
	MinioHost     string `env:"MINIO_HOST"`
	MinioPort     string `env:"MINIO_PORT" envDefault:"9000"`
	MinioUsername string `env:"MINIO_USERNAME" envDefault:"minioadmin"`
	MinioPassword string `env:"MINIO_PASSWORD" envDefault:"minioadmin"`
	UseSSL        bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	BucketName    string `env:"BUCKET_NAME" envDefault:"stow"`
	// PublicURL is the base clients use to fetch objects; defaults to the MinIO endpoint.
	PublicURL         string   `env:"MINIO_PUBLIC_URL"`
	MaxImageBytes     int64    `env:"PROFILE_IMAGE_MAX_BYTES" envDefault:"5242880"`
	AllowedImageTypes []string `env:"PROFILE_IMAGE_TYPES" envDefault:"image/jpeg,image/png,image/gif,image/webp"`
}

func (s *StorageConfig) normalize() {
	if s.PublicURL == "" && s.MinioHost != "" {
		scheme := "http"
		if s.UseSSL {
			scheme = "https"
		}
		s.PublicURL = fmt.Sprintf("%s://%s", scheme, s.Endpoint())
	}
	s.PublicURL = strings.TrimRight(s.PublicURL, "/")
	if s.MaxImageBytes <= 0 {
		s.MaxImageBytes = 5 << 20
	}
}

// Endpoint returns host:port of the MinIO server.
func (s StorageConfig) Endpoint() string {
	return s.MinioHost + ":" + s.MinioPort
}

// Enabled reports whether object storage is configured.
func (s StorageConfig) Enabled() bool {
	return s.MinioHost != ""
}

// ObjectURL builds the public URL of an object in the configured bucket.
func (s StorageConfig) ObjectURL(object string) string {
	return s.PublicURL + "/" + s.BucketName + "/" + strings.TrimLeft(object, "/")
}
