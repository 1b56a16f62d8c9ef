package store

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectContext is the object-store Storage Context variant: container is a
// bucket, object is a key. Reads issue authenticated HTTP Range requests via
// github.com/minio/minio-go/v7, which speaks the S3 API common to every
// major object-store vendor (AWS S3, GCS interop mode, MinIO, R2, ...).
type ObjectContext struct {
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool

	client *minio.Client
}

var _ Context = (*ObjectContext)(nil)

// NewObjectContext creates an ObjectContext for the given bucket.
func NewObjectContext(endpoint, bucket, accessKeyID, secretAccessKey string, useSSL bool) *ObjectContext {
	return &ObjectContext{Endpoint: endpoint, Bucket: bucket, AccessKeyID: accessKeyID, SecretAccessKey: secretAccessKey, UseSSL: useSSL}
}

func (o *ObjectContext) Open(ctx context.Context) error {
	client, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKeyID, o.SecretAccessKey, ""),
		Secure: o.UseSSL,
	})
	if err != nil {
		return &Error{Kind: KindTransport, Object: o.Bucket, Wrapped: err}
	}
	ok, err := client.BucketExists(ctx, o.Bucket)
	if err != nil {
		return &Error{Kind: KindTransport, Object: o.Bucket, Wrapped: err}
	}
	if !ok {
		return &Error{Kind: KindNotFound, Object: o.Bucket, Wrapped: fmt.Errorf("bucket does not exist")}
	}
	o.client = client
	return nil
}

// ReadRange issues a GetObject call with an HTTP Range option — the
// object-store analogue of the Storage Context's read-range operation.
func (o *ObjectContext) ReadRange(ctx context.Context, object string, offset, length int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	if length < 0 {
		// A zero offset with no end is the whole object: no Range header.
		if offset > 0 {
			if err := opts.SetRange(offset, 0); err != nil {
				return nil, &Error{Kind: KindMalformed, Object: object, Wrapped: err}
			}
		}
	} else {
		if err := opts.SetRange(offset, offset+length-1); err != nil {
			return nil, &Error{Kind: KindMalformed, Object: object, Wrapped: err}
		}
	}

	obj, err := o.client.GetObject(ctx, o.Bucket, object, opts)
	if err != nil {
		return nil, classifyMinioError(object, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classifyMinioError(object, err)
	}
	return data, nil
}

func classifyMinioError(object string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return &Error{Kind: KindNotFound, Object: object, Wrapped: err}
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return &Error{Kind: KindAuthorization, Object: object, Wrapped: err}
	default:
		return &Error{Kind: KindTransport, Object: object, Wrapped: err}
	}
}

func (o *ObjectContext) Close() error { return nil }
