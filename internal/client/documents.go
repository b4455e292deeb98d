// ABOUTME: PDF document and quiz generation endpoints
// ABOUTME: Upload streams a multipart body through an io.Pipe for progress

package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
)

// DefaultQuestionCount is used when the caller asks for zero questions
const DefaultQuestionCount = 5

// UploadOptions controls a PDF upload
type UploadOptions struct {
	Filename string
	FolderID ID // zero for the root
	// Progress receives the cumulative byte count written to the request body
	Progress func(sent int64)
}

// UploadPDF streams r as the multipart "file" field
func (c *Client) UploadPDF(ctx context.Context, r io.Reader, opts UploadOptions) (*UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUpload(mw, r, opts))
	}()

	var res UploadResult
	err := c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         "/pdf/upload",
		Body:         &Multipart{Body: pr, ContentType: mw.FormDataContentType()},
		RequireAuth:  true,
		Upload:       true,
		DefaultError: "Erreur lors du téléchargement du fichier",
	}, &res)
	// Unblock the writer goroutine if the request ended early
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func writeUpload(mw *multipart.Writer, r io.Reader, opts UploadOptions) error {
	if opts.FolderID != 0 {
		if err := mw.WriteField("folder_id", opts.FolderID.String()); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(opts.Filename)))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	var w io.Writer = part
	if opts.Progress != nil {
		w = &progressWriter{w: part, fn: opts.Progress}
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("failed to stream file: %w", err)
	}
	return mw.Close()
}

type progressWriter struct {
	w  io.Writer
	n  int64
	fn func(int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.n += int64(n)
	p.fn(p.n)
	return n, err
}

func escapeQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// ListPDFs lists the account's uploaded documents
func (c *Client) ListPDFs(ctx context.Context) ([]PDFDocument, error) {
	var resp pdfListResponse
	if err := c.Do(ctx, Request{Path: "/pdf/list", RequireAuth: true}, &resp); err != nil {
		return nil, err
	}
	return resp.PDFs, nil
}

// DeletePDF removes an uploaded document
func (c *Client) DeletePDF(ctx context.Context, id ID) error {
	return c.Do(ctx, Request{
		Method:       http.MethodDelete,
		Path:         "/pdf/" + id.String(),
		RequireAuth:  true,
		DefaultError: "Erreur lors de la suppression du fichier",
	}, nil)
}

// GenerateQCMRequest builds the generation call, so a Fetcher can own it
func GenerateQCMRequest(fileID ID, numQuestions int) Request {
	if numQuestions <= 0 {
		numQuestions = DefaultQuestionCount
	}
	return Request{
		Method:       http.MethodPost,
		Path:         "/generate-qcm/" + fileID.String(),
		Body:         url.Values{"num_questions": {strconv.Itoa(numQuestions)}},
		RequireAuth:  true,
		Upload:       true,
		DefaultError: "Erreur lors de la génération du QCM",
	}
}

// GenerateQCM asks the backend to build a quiz from an uploaded document
func (c *Client) GenerateQCM(ctx context.Context, fileID ID, numQuestions int) (*QCM, error) {
	var qcm QCM
	if err := c.Do(ctx, GenerateQCMRequest(fileID, numQuestions), &qcm); err != nil {
		return nil, err
	}
	return &qcm, nil
}
