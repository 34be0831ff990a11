package storage

import (
	"strconv"
	"strings"
)

// LatestVersionLabel addresses the most recent value of a parameter.
const LatestVersionLabel = "LATEST"

// VersionZeroPad is the width versions are zero-padded to in object names.
// Supports up to 999999 versions per parameter.
const VersionZeroPad = 6

// Metadata keys attached to stored objects.
const (
	MetadataKeyVersion = "config_version"
	MetadataKeySHA256  = "config_sha256"
)

// EncodeVersion normalizes a version label. An empty label means latest,
// and numeric labels lose their zero padding ("000001" becomes "1").
// Opaque labels such as native S3 version ids pass through unchanged.
func EncodeVersion(version string) string {
	if version == "" || version == LatestVersionLabel {
		return LatestVersionLabel
	}
	if n, err := strconv.Atoi(version); err == nil {
		return strconv.Itoa(n)
	}
	return version
}

// ZeroPadVersion left-pads a numeric version to VersionZeroPad digits for
// use in object names, so versions sort lexicographically.
func ZeroPadVersion(version string) string {
	if _, err := strconv.Atoi(version); err != nil {
		return version
	}
	if len(version) >= VersionZeroPad {
		return version
	}
	return strings.Repeat("0", VersionZeroPad-len(version)) + version
}

// IsLatest reports whether the label addresses the most recent value.
func IsLatest(version string) bool {
	return version == "" || version == LatestVersionLabel
}
