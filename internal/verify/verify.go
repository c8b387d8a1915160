// Package verify gates uploaded report documents on home identity: a
// document claiming to belong to a home must actually mention that home.
package verify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/FallyxInc/carehome-ingest/internal/homes"
)

// UploadedFile is one document submitted for verification.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// Result is the read-only verification outcome. A mismatch is a normal
// negative result, not an error; the caller decides whether to reject the
// upload, and nothing here retries.
type Result struct {
	Validity bool   `json:"validity"`
	Message  string `json:"message"`
}

// TextExtractor supplies searchable text for the supported document kinds.
type TextExtractor interface {
	PDFPages(data []byte) []string
	ExcelSheets(data []byte) []string
}

// Verifier checks uploads against the home registry.
type Verifier struct {
	registry  homes.Registry
	extractor TextExtractor
	logger    *zap.Logger
}

// NewVerifier creates a Verifier.
func NewVerifier(registry homes.Registry, extractor TextExtractor, logger *zap.Logger) *Verifier {
	return &Verifier{registry: registry, extractor: extractor, logger: logger}
}

// VerifyPDFs checks that every PDF's page text (or filename) contains the
// claimed home's display name, case-insensitively. Files are checked in
// order and the first failure short-circuits: the diagnostic registry scan
// is only meaningful for one file at a time.
func (v *Verifier) VerifyPDFs(ctx context.Context, files []UploadedFile, claimedHomeKey string) (Result, error) {
	home, err := v.registry.Lookup(ctx, claimedHomeKey)
	if err != nil {
		return Result{}, fmt.Errorf("resolve home %q: %w", claimedHomeKey, err)
	}

	for _, f := range files {
		pages := v.extractor.PDFPages(f.Data)
		if containsName(f.Filename, pages, home.DisplayName) {
			continue
		}
		v.logger.Info("verify.pdf.mismatch",
			zap.String("home_key", claimedHomeKey),
			zap.String("expected", home.DisplayName),
			zap.String("filename", f.Filename),
		)
		return v.diagnose(ctx, f.Filename, pages, home.DisplayName)
	}

	return Result{
		Validity: true,
		Message:  fmt.Sprintf("All %d document(s) contain the home name %q.", len(files), home.DisplayName),
	}, nil
}

// VerifyBehaviourExcels mirrors VerifyPDFs for spreadsheet uploads,
// matching against sheet text and the filename.
func (v *Verifier) VerifyBehaviourExcels(ctx context.Context, files []UploadedFile, claimedHomeKey string) (Result, error) {
	home, err := v.registry.Lookup(ctx, claimedHomeKey)
	if err != nil {
		return Result{}, fmt.Errorf("resolve home %q: %w", claimedHomeKey, err)
	}

	for _, f := range files {
		sheets := v.extractor.ExcelSheets(f.Data)
		if containsName(f.Filename, sheets, home.DisplayName) {
			continue
		}
		v.logger.Info("verify.excel.mismatch",
			zap.String("home_key", claimedHomeKey),
			zap.String("expected", home.DisplayName),
			zap.String("filename", f.Filename),
		)
		return v.diagnose(ctx, f.Filename, sheets, home.DisplayName)
	}

	return Result{
		Validity: true,
		Message:  fmt.Sprintf("All %d document(s) contain the home name %q.", len(files), home.DisplayName),
	}, nil
}

// diagnose scans every registered home's display name against the failing
// file so the operator sees which home the document actually belongs to.
func (v *Verifier) diagnose(ctx context.Context, filename string, segments []string, expected string) (Result, error) {
	all, err := v.registry.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list homes: %w", err)
	}

	seen := map[string]struct{}{}
	var alternates []string
	for _, h := range all {
		name := strings.TrimSpace(h.DisplayName)
		if name == "" || strings.EqualFold(name, expected) {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		if containsName(filename, segments, name) {
			seen[key] = struct{}{}
			alternates = append(alternates, name)
		}
	}
	sort.Strings(alternates)

	if len(alternates) == 0 {
		return Result{
			Validity: false,
			Message:  fmt.Sprintf("Document %q does not contain the home name %q.", filename, expected),
		}, nil
	}

	quoted := make([]string, len(alternates))
	for i, name := range alternates {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return Result{
		Validity: false,
		Message: fmt.Sprintf("Document %q does not contain the home name %q. Detected home names: %s.",
			filename, expected, strings.Join(quoted, ", ")),
	}, nil
}

// containsName reports whether the display name appears, case-insensitively,
// in the filename or any text segment.
func containsName(filename string, segments []string, displayName string) bool {
	needle := strings.ToLower(strings.TrimSpace(displayName))
	if needle == "" {
		return false
	}
	if strings.Contains(strings.ToLower(filename), needle) {
		return true
	}
	for _, seg := range segments {
		if strings.Contains(strings.ToLower(seg), needle) {
			return true
		}
	}
	return false
}
