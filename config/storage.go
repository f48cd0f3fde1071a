package config

import "os"

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

// StorageConfig selects where uploaded images live. Local disk under
// UploadsDir is the default; when the Cloudflare R2 variables are present
// the upload controller mirrors files to the bucket as well.
type StorageConfig struct {
	UploadsDir string
	R2         *R2Config
}

func GetR2Config() *R2Config {
	if os.Getenv("CLOUDFLARE_ACCOUNT_ID") == "" {
		return nil
	}
	return &R2Config{
		AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("CLOUDFLARE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("CLOUDFLARE_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("CLOUDFLARE_BUCKET_NAME"),
		PublicURL:       os.Getenv("CLOUDFLARE_PUBLIC_URL"),
		Region:          "auto",
	}
}

func GetStorageConfig() *StorageConfig {
	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}

	return &StorageConfig{
		UploadsDir: uploadsDir,
		R2:         GetR2Config(),
	}
}
