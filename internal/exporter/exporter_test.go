package exporter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Write(path string, doc Document) error {
	args := m.Called(path, doc)
	return args.Error(0)
}

func TestExportHandsRenderedDocumentToSink(t *testing.T) {
	t.Parallel()

	rec := sampleRecord()
	sink := &mockSink{}
	sink.On("Write", "/tmp/out.pdf", Render(rec)).Return(nil).Once()

	err := New(sink, zap.NewNop()).Export(context.Background(), rec, "/tmp/out.pdf")
	require.NoError(t, err)
	sink.AssertExpectations(t)
}

func TestExportWrapsSinkFailure(t *testing.T) {
	t.Parallel()

	sink := &mockSink{}
	sink.On("Write", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	err := New(sink, nil).Export(context.Background(), sampleRecord(), "/tmp/out.pdf")
	require.ErrorIs(t, err, wiki.ErrExport)
	var exportErr *wiki.ExportError
	require.True(t, errors.As(err, &exportErr))
	require.Equal(t, "/tmp/out.pdf", exportErr.Path)
	require.Contains(t, err.Error(), "disk full")
}

func TestExportCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &mockSink{}

	err := New(sink, nil).Export(ctx, sampleRecord(), "/tmp/out.pdf")
	require.ErrorIs(t, err, wiki.ErrExport)
	require.ErrorIs(t, err, context.Canceled)
	sink.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestPDFSinkWritesFile(t *testing.T) {
	t.Parallel()

	rec := sampleRecord()
	rec.Content = "Ünïcødé text — with a dash\n漢字 beyond the code page"
	path := filepath.Join(t.TempDir(), "article.pdf")

	require.NoError(t, New(PDFSink{}, nil).Export(context.Background(), rec, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

func TestPDFSinkUnwritablePath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "dir", "article.pdf")
	err := PDFSink{}.Write(path, Render(sampleRecord()))
	require.ErrorIs(t, err, wiki.ErrExport)
}
