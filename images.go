package thinkme

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// saveUpload validates, processes, and stores a multipart image upload,
// returning its public URL path.
func (a *App) saveUpload(file *multipart.FileHeader) (string, error) {
	if file.Size > maxUploadSize {
		return "", apiError(http.StatusBadRequest, "File too large (max 10MB)")
	}
	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return "", apiError(http.StatusBadRequest, "Only JPEG, PNG or WEBP images are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name, data, err := processImage(src, file.Filename)
	if err != nil {
		return "", apiError(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	name = uniqueUploadName(dir, name)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return "/public/" + uploadsSubdir + "/" + name, nil
}

// processImage decodes an image, resizes it to maxImageWidth if wider
// (preserving aspect ratio), and re-encodes it as JPEG. Returns the
// target filename and the encoded bytes.
func processImage(src io.Reader, originalName string) (string, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return slugifyFilename(originalName) + ".jpg", buf.Bytes(), nil
}

// uniqueUploadName appends a counter when the filename already exists in
// the uploads directory.
func uniqueUploadName(dir, name string) string {
	base := strings.TrimSuffix(name, ".jpg")
	candidate := name
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); err != nil {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
}

// slugifyFilename converts a filename (without extension) to a URL-safe
// slug, falling back to a timestamp when nothing usable remains.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(name, ext)))
	var b strings.Builder
	prev := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = fmt.Sprintf("upload-%d", time.Now().UnixNano())
	}
	return slug
}
