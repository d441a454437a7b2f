package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/maxviazov/shop-admin-console/internal/model"
)

// ProgressFunc is called as the request body is sent: sent bytes so far and the total.
type ProgressFunc func(sent, total int64)

// FilePart is the file field of a multipart upload.
type FilePart struct {
	Field    string // form field name, "file" when empty
	FileName string
	Content  io.Reader
}

// Upload posts a multipart form to path. The form is assembled in memory, which is
// fine for logos and thumbnails, and gives progress a known total.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, file FilePart, progress ProgressFunc) (model.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return model.UploadResult{}, fmt.Errorf("writing form field %q: %w", k, err)
		}
	}
	field := file.Field
	if field == "" {
		field = "file"
	}
	fw, err := mw.CreateFormFile(field, file.FileName)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(fw, file.Content); err != nil {
		return model.UploadResult{}, fmt.Errorf("reading upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return model.UploadResult{}, fmt.Errorf("closing multipart writer: %w", err)
	}

	payload := buf.Bytes()
	raw, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		contentType: mw.FormDataContentType(),
		body: func() (io.Reader, int64, error) {
			total := int64(len(payload))
			return &progressReader{r: bytes.NewReader(payload), total: total, fn: progress}, total, nil
		},
	})
	if err != nil {
		return model.UploadResult{}, err
	}
	return decode[model.UploadResult](raw, path)
}

// UploadBrandLogo uploads a logo for brandID to the brand logo endpoint.
func (c *Client) UploadBrandLogo(ctx context.Context, brandID, fileName string, content io.Reader, progress ProgressFunc) (model.UploadResult, error) {
	fields := map[string]string{}
	if brandID != "" {
		fields["brandId"] = brandID
	}
	return c.Upload(ctx, BrandLogoUploadPath, fields, FilePart{FileName: fileName, Content: content}, progress)
}

type progressReader struct {
	r     io.Reader
	total int64
	fn    ProgressFunc

	mu   sync.Mutex
	sent int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.fn != nil {
		p.mu.Lock()
		p.sent += int64(n)
		sent := p.sent
		p.mu.Unlock()
		p.fn(sent, p.total)
	}
	return n, err
}
