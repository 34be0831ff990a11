package s3uri

import (
	"fmt"
	"path"
	"strings"
)

// URI identifies an S3 object or directory. A key ending in "/" (or an empty
// key) is a directory; everything else is an object.
type URI struct {
	Bucket string
	Key    string
}

// Parse parses an "s3://bucket/key" string.
func Parse(uri string) (URI, error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return URI{}, fmt.Errorf("invalid S3 URI %q: must start with s3://", uri)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return URI{}, fmt.Errorf("invalid S3 URI %q: missing bucket", uri)
	}
	return URI{Bucket: bucket, Key: key}, nil
}

// MustParse is Parse for statically known URIs; it panics on error.
func MustParse(uri string) URI {
	u, err := Parse(uri)
	if err != nil {
		panic(err)
	}
	return u
}

func (u URI) String() string {
	return "s3://" + u.Bucket + "/" + u.Key
}

// IsDir reports whether the URI addresses a directory rather than an object.
func (u URI) IsDir() bool {
	return u.Key == "" || strings.HasSuffix(u.Key, "/")
}

// ToDir returns the URI with a trailing slash on the key.
func (u URI) ToDir() URI {
	if u.IsDir() {
		return u
	}
	return URI{Bucket: u.Bucket, Key: u.Key + "/"}
}

// Join appends path elements to the key. A trailing slash on the last
// element is preserved so directories can be built with Join.
func (u URI) Join(elem ...string) URI {
	parts := append([]string{u.Key}, elem...)
	joined := path.Join(parts...)
	if len(elem) > 0 && strings.HasSuffix(elem[len(elem)-1], "/") {
		joined += "/"
	}
	return URI{Bucket: u.Bucket, Key: joined}
}

// Basename returns the last element of the key.
func (u URI) Basename() string {
	return path.Base(strings.TrimSuffix(u.Key, "/"))
}

// Parent returns the directory containing this URI.
func (u URI) Parent() URI {
	trimmed := strings.TrimSuffix(u.Key, "/")
	dir := path.Dir(trimmed)
	if dir == "." || dir == "/" {
		return URI{Bucket: u.Bucket, Key: ""}
	}
	return URI{Bucket: u.Bucket, Key: dir + "/"}
}

// ConsoleURL returns the AWS web console link for the object or directory.
func (u URI) ConsoleURL() string {
	if u.IsDir() {
		return fmt.Sprintf("https://console.aws.amazon.com/s3/buckets/%s?prefix=%s", u.Bucket, u.Key)
	}
	return fmt.Sprintf("https://console.aws.amazon.com/s3/object/%s?prefix=%s", u.Bucket, u.Key)
}
