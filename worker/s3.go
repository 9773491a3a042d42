package worker

import (
	"cctareport.com/engine/s3client"
	"time"
)

type s3Transactions interface {
	saveArchiveFile(task *Task, file archiveFile) error
	archiveLink(key string, ttl time.Duration) (string, error)
	close()
}

type s3ClientWrapper struct {
	s3Client *s3client.Client
}

func (wrapper *s3ClientWrapper) close() {
	wrapper.s3Client.Close()
}

func (wrapper *s3ClientWrapper) saveArchiveFile(task *Task, file archiveFile) error {
	_, err := wrapper.s3Client.Upload(file.data, file.key, file.contentType)
	return err
}

func (wrapper *s3ClientWrapper) archiveLink(key string, ttl time.Duration) (string, error) {
	return wrapper.s3Client.PresignGet(key, ttl)
}
