package controllers

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/local-fix/api-go/config"
	"github.com/rs/zerolog/log"
)

// Upload folders. Anything outside this set is refused both on write and
// on serve.
const (
	FolderProfiles  = "profiles"
	FolderIssueImgs = "issue_img"
	FolderProofs    = "proofs"
)

var allowedFolders = map[string]bool{
	FolderProfiles:  true,
	FolderIssueImgs: true,
	FolderProofs:    true,
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

const maxImageSize = 10 * 1024 * 1024 // 10MB

// StorageService persists uploads to folder-scoped paths under a local
// uploads directory, mirroring to an S3-compatible R2 bucket when one is
// configured.
type StorageService struct {
	Config   *config.StorageConfig
	R2Client *s3.Client
}

func NewStorageService(cfg *config.StorageConfig) *StorageService {
	svc := &StorageService{Config: cfg}

	if cfg.R2 != nil {
		svc.R2Client = s3.New(s3.Options{
			BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2.AccountID)),
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.R2.AccessKeyID,
				cfg.R2.SecretAccessKey,
				"",
			),
			Region: cfg.R2.Region,
		})
	}

	return svc
}

func generateFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.New().String(), ext)
}

// SaveUpload stores a multipart image under the given folder and returns
// its serving path.
func (ss *StorageService) SaveUpload(c *gin.Context, file *multipart.FileHeader, folder string) (string, error) {
	if !allowedFolders[folder] {
		return "", fmt.Errorf("invalid upload folder")
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("only JPEG, PNG and WebP images are allowed")
	}

	if file.Size > maxImageSize {
		return "", fmt.Errorf("image exceeds the 10MB size limit")
	}

	fileName := generateFileName(file.Filename)
	dir := filepath.Join(ss.Config.UploadsDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare upload directory")
	}

	dst := filepath.Join(dir, fileName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to save file")
	}

	if ss.R2Client != nil {
		// Local copy is authoritative; the mirror is best effort.
		if err := ss.mirrorToR2(dst, folder+"/"+fileName, contentType); err != nil {
			log.Warn().Err(err).Str("key", folder+"/"+fileName).Msg("failed to mirror upload to R2")
		}
	}

	return fmt.Sprintf("/api/uploads/image/%s/%s", folder, fileName), nil
}

func (ss *StorageService) mirrorToR2(localPath, key, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = ss.R2Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(ss.Config.R2.BucketName),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	return err
}

func (ss *StorageService) DeleteFile(folder, fileName string) error {
	if !allowedFolders[folder] {
		return fmt.Errorf("invalid upload folder")
	}

	if err := os.Remove(filepath.Join(ss.Config.UploadsDir, folder, fileName)); err != nil {
		return err
	}

	if ss.R2Client != nil {
		_, err := ss.R2Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
			Bucket: aws.String(ss.Config.R2.BucketName),
			Key:    aws.String(folder + "/" + fileName),
		})
		return err
	}

	return nil
}

type UploadController struct {
	Storage *StorageService
}

func NewUploadController(storage *StorageService) *UploadController {
	return &UploadController{Storage: storage}
}

// UploadImage handles multipart image uploads for profile and issue
// photos. Proof photos go through the proof submission endpoint instead.
func (uc *UploadController) UploadImage(c *gin.Context) {
	folder := c.PostForm("folder")
	if folder == FolderProofs || !allowedFolders[folder] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid upload folder"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image file is required"})
		return
	}

	path, err := uc.Storage.SaveUpload(c, file, folder)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    gin.H{"path": path},
		Message: "Image uploaded successfully",
	})
}

// ServeImage serves an uploaded image back. The folder must be on the
// allow-list and the filename must not escape the uploads directory.
func (uc *UploadController) ServeImage(c *gin.Context) {
	folder := c.Param("folder")
	fileName := c.Param("filename")

	if !allowedFolders[folder] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid folder"})
		return
	}

	if fileName != filepath.Base(fileName) || strings.Contains(fileName, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid filename"})
		return
	}

	path := filepath.Join(uc.Storage.Config.UploadsDir, folder, fileName)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "File not found"})
		return
	}

	c.File(path)
}
