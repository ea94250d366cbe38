package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"orbit/internal/report"
)

// responseSink streams an exported document back as an attachment on the
// response that requested it. Delivering to the client is the interactive
// path here, so ForceDownload is never reached.
type responseSink struct {
	w     http.ResponseWriter
	wrote bool
}

func newResponseSink(w http.ResponseWriter) *responseSink {
	return &responseSink{w: w}
}

func (s *responseSink) TrySaveInteractive(ctx context.Context, data []byte, name, mimeType string) (report.Outcome, error) {
	s.w.Header().Set("Content-Type", mimeType)
	s.w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	s.w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	s.wrote = true
	if _, err := s.w.Write(data); err != nil {
		return report.OutcomeCancelled, fmt.Errorf("write response: %w", err)
	}
	return report.OutcomeSaved, nil
}

func (s *responseSink) ForceDownload(ctx context.Context, data []byte, name string) error {
	_, err := s.TrySaveInteractive(ctx, data, name, "application/octet-stream")
	return err
}
