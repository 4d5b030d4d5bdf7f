// Package store pushes completed archives to S3 and pulls them back.
// Archives are immutable once written, so objects are only ever put
// whole and fetched whole.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func newSession() (*session.Session, error) {
	config := aws.NewConfig()
	// S3_ENDPOINT points at a local stack during development
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		config = config.WithEndpoint(endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, errors.Wrap(err, "could not create an S3 session")
	}
	return sess, nil
}

// Upload puts a local archive at bucket/key.
func Upload(path, bucket, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "could not open archive %q", path)
	}
	defer f.Close()

	sess, err := newSession()
	if err != nil {
		return err
	}
	uploader := s3manager.NewUploader(sess)
	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	return errors.Wrapf(err, "could not upload %q to s3://%s/%s", path, bucket, key)
}

// Download fetches bucket/key to a local path. The object lands in a
// temp file and is committed with a rename so a partial download never
// masquerades as an archive.
func Download(bucket, key, path string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	staging := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))
	f, err := os.Create(staging)
	if err != nil {
		return errors.Wrapf(err, "could not create staging file in %q", dir)
	}

	downloader := s3manager.NewDownloader(sess)
	if _, err := downloader.Download(f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		f.Close()
		os.Remove(staging)
		return errors.Wrapf(err, "could not download s3://%s/%s", bucket, key)
	}
	if err := f.Close(); err != nil {
		os.Remove(staging)
		return errors.Wrapf(err, "could not close staging file for %q", path)
	}
	if err := os.Rename(staging, path); err != nil {
		os.Remove(staging)
		return errors.Wrapf(err, "could not commit download to %q", path)
	}
	return nil
}
