package storage

import (
	"context"
	"crypto/md5" // For simple URL hashing
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"weaver/weaver/config"
)

// PageCache holds fetched page text so the local extractor does not
// re-fetch a URL it has already seen.
type PageCache struct {
	client *minio.Client
	bucket string
}

type PageObject struct {
	URL       string    `json:"url"`
	Text      string    `json:"extracted_text"`
	FetchedAt time.Time `json:"fetched_at"`
}

func NewPageCache(cfg config.Config) (*PageCache, error) {
	// Use insecure for local (no HTTPS)
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &PageCache{client: client, bucket: bucket}, nil
}

func pageKey(url string) string {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(url)))
	return filepath.Join("pages", fmt.Sprintf("%s.json", hash))
}

// Get returns cached page text for url, or an error when the object is
// absent or unreadable (caller fetches fresh on any error).
func (p *PageCache) Get(ctx context.Context, url string) (string, error) {
	obj, err := p.client.GetObject(ctx, p.bucket, pageKey(url), minio.GetObjectOptions{})
	if err != nil {
		return "", err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return "", err
	}
	var page PageObject
	if err := json.Unmarshal(data, &page); err != nil {
		return "", err
	}
	return page.Text, nil
}

// Put stores the stripped text for url and returns the object key.
func (p *PageCache) Put(ctx context.Context, url, text string) (string, error) {
	key := pageKey(url)
	page := PageObject{
		URL:       url,
		Text:      text,
		FetchedAt: time.Now(),
	}
	data, err := json.Marshal(page)
	if err != nil {
		return "", err
	}

	_, err = p.client.PutObject(ctx, p.bucket, key, io.NopCloser(strings.NewReader(string(data))), int64(len(data)), minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", err
	}

	return key, nil
}
