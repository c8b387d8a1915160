package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FallyxInc/carehome-ingest/constants"
	"github.com/FallyxInc/carehome-ingest/internal/store"
	"github.com/FallyxInc/carehome-ingest/internal/verify"
)

// VerifyHandler serves document-identity verification.
type VerifyHandler struct {
	log      *zap.Logger
	verifier *verify.Verifier
}

// NewVerifyHandler creates a VerifyHandler.
func NewVerifyHandler(log *zap.Logger, verifier *verify.Verifier) *VerifyHandler {
	return &VerifyHandler{log: log, verifier: verifier}
}

type verifyFilePayload struct {
	Filename string `json:"filename"`
	Content  string `json:"content"` // base64
}

type verifyRequest struct {
	HomeKey string              `json:"homeKey"`
	Files   []verifyFilePayload `json:"files"`
}

// VerifyDocuments handles POST /api/verify/documents. A content mismatch
// is a normal outcome and returns 200 with validity:false; 400 is reserved
// for malformed requests and 500 for unexpected failures.
func (h *VerifyHandler) VerifyDocuments(c *gin.Context) {
	homeKey, files, err := h.decodeUpload(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var pdfs, excels []verify.UploadedFile
	for _, f := range files {
		ext := filepath.Ext(f.Filename)
		switch {
		case constants.IsPDFExt(ext):
			pdfs = append(pdfs, f)
		case constants.IsExcelExt(ext):
			excels = append(excels, f)
		default:
			RespondError(c, http.StatusBadRequest, "unsupported_file_type",
				fmt.Errorf("file %q: extension not supported", f.Filename))
			return
		}
	}

	ctx := c.Request.Context()
	result, err := h.verifyAll(ctx, pdfs, excels, homeKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondError(c, http.StatusBadRequest, "unknown_home",
				fmt.Errorf("home %q is not registered", homeKey))
			return
		}
		h.log.Error("verify.documents.failed", zap.String("home_key", homeKey), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "verification_failed", err)
		return
	}
	RespondOK(c, result)
}

// verifyAll runs the PDF batch first, then the spreadsheets, returning the
// first negative result.
func (h *VerifyHandler) verifyAll(ctx context.Context, pdfs, excels []verify.UploadedFile, homeKey string) (verify.Result, error) {
	result := verify.Result{Validity: true}
	if len(pdfs) > 0 {
		r, err := h.verifier.VerifyPDFs(ctx, pdfs, homeKey)
		if err != nil {
			return verify.Result{}, err
		}
		if !r.Validity {
			return r, nil
		}
		result = r
	}
	if len(excels) > 0 {
		r, err := h.verifier.VerifyBehaviourExcels(ctx, excels, homeKey)
		if err != nil {
			return verify.Result{}, err
		}
		if !r.Validity {
			return r, nil
		}
		if len(pdfs) > 0 {
			r.Message = result.Message + " " + r.Message
		}
		result = r
	}
	return result, nil
}

// decodeUpload accepts either a JSON body with base64 content or a
// multipart form with a homeKey field and files parts.
func (h *VerifyHandler) decodeUpload(c *gin.Context) (string, []verify.UploadedFile, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return h.decodeMultipart(c)
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", nil, fmt.Errorf("decode request: %w", err)
	}
	if strings.TrimSpace(req.HomeKey) == "" {
		return "", nil, fmt.Errorf("homeKey is required")
	}
	if len(req.Files) == 0 {
		return "", nil, fmt.Errorf("at least one file is required")
	}
	files := make([]verify.UploadedFile, 0, len(req.Files))
	for _, f := range req.Files {
		if strings.TrimSpace(f.Filename) == "" {
			return "", nil, fmt.Errorf("every file needs a filename")
		}
		data, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			return "", nil, fmt.Errorf("file %q: decode content: %w", f.Filename, err)
		}
		files = append(files, verify.UploadedFile{Filename: f.Filename, Data: data})
	}
	return req.HomeKey, files, nil
}

func (h *VerifyHandler) decodeMultipart(c *gin.Context) (string, []verify.UploadedFile, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return "", nil, fmt.Errorf("parse multipart form: %w", err)
	}
	form := c.Request.MultipartForm
	homeKey := ""
	if v := form.Value["homeKey"]; len(v) > 0 {
		homeKey = strings.TrimSpace(v[0])
	}
	if homeKey == "" {
		return "", nil, fmt.Errorf("homeKey is required")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return "", nil, fmt.Errorf("at least one file is required")
	}
	files := make([]verify.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return "", nil, fmt.Errorf("file %q: open: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(src)
		_ = src.Close()
		if err != nil {
			return "", nil, fmt.Errorf("file %q: read: %w", fh.Filename, err)
		}
		files = append(files, verify.UploadedFile{Filename: fh.Filename, Data: data})
	}
	return homeKey, files, nil
}
