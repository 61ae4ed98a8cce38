package httpserver

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"mini-shop/internal/upload"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is allowed on top of the file bytes for form framing.
const multipartOverhead = 1 << 20

func (h *handler) uploadSingle(c *gin.Context) {
	h.limitBody(c, 1)
	fh, err := c.FormFile("file")
	if err != nil {
		h.writeError(c, formError(err))
		return
	}
	file, err := h.deps.Files.Save(source("file", fh))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "file uploaded", gin.H{"file": file})
}

func (h *handler) uploadMultiple(c *gin.Context) {
	h.limitBody(c, upload.MaxFiles)
	form, err := c.MultipartForm()
	if err != nil {
		h.writeError(c, formError(err))
		return
	}
	headers := form.File["files"]
	srcs := make([]upload.Source, 0, len(headers))
	for _, fh := range headers {
		srcs = append(srcs, source("files", fh))
	}
	files, err := h.deps.Files.SaveMany(srcs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "files uploaded", gin.H{"files": files})
}

func (h *handler) deleteUpload(c *gin.Context) {
	if err := h.deps.Files.Delete(c.Param("filename")); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, "file deleted", nil)
}

func (h *handler) limitBody(c *gin.Context, files int) {
	limit := h.deps.Files.MaxBytes()*int64(files) + multipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}

func source(field string, fh *multipart.FileHeader) upload.Source {
	return upload.Source{
		Field:        field,
		OriginalName: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return upload.ErrTooLarge
	}
	return upload.ErrNoFile
}
