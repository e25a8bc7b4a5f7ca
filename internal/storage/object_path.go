package storage

import (
	"errors"
	"mime"
	"path"
	"strings"
)

var errEmptyBaseName = errors.New("storage: object base name is empty")

// sanitizePathSegment keeps letters, digits, '-', '_' and '.'; anything else becomes '_'.
// Leading dots are dropped so a segment can never climb out of its parent.
func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	builder := strings.Builder{}
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
		case ch == '-', ch == '_', ch == '.':
			builder.WriteByte(ch)
		default:
			builder.WriteByte('_')
		}
	}
	return strings.TrimLeft(builder.String(), ".")
}

func normalizeExtension(ext string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if trimmed == "" {
		return "json"
	}
	return strings.ToLower(sanitizePathSegment(trimmed))
}

// buildObjectPath returns category/base.ext. The same inputs always give the same key.
func buildObjectPath(category, baseName, ext string) (string, error) {
	base := sanitizePathSegment(baseName)
	if base == "" {
		return "", errEmptyBaseName
	}
	category = sanitizePathSegment(category)
	if category == "" {
		category = "misc"
	}
	return path.Join(category, base+"."+normalizeExtension(ext)), nil
}

func detectContentType(ext string) string {
	typeName := mime.TypeByExtension("." + normalizeExtension(ext))
	if typeName == "" {
		return "application/octet-stream"
	}
	return typeName
}

func joinPrefix(prefix, key string) string {
	cleanPrefix := trimPrefix(prefix)
	if cleanPrefix == "" {
		return strings.TrimLeft(key, "/")
	}
	return path.Join(cleanPrefix, strings.TrimLeft(key, "/"))
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

// objectKey builds the key for opts under an optional bucket prefix.
func objectKey(prefix string, opts SaveOptions) (string, error) {
	key, err := buildObjectPath(opts.Category, opts.BaseName, opts.Extension)
	if err != nil {
		return "", err
	}
	if prefix != "" {
		key = joinPrefix(prefix, key)
	}
	return key, nil
}
