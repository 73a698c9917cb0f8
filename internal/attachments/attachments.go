// Package attachments stores card attachments on local disk.
//
// Files land under <dir>/<cardID>/<filename>. Downloads stream to a
// temp file first and are renamed into place, so a partial download
// never appears as a finished file.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/boardwatch/internal/trello"
	"go.uber.org/zap"
)

// Downloader is the slice of the Trello client used for fetching
// attachment bytes.
type Downloader interface {
	DownloadAttachment(ctx context.Context, fileURL string) (io.ReadCloser, error)
}

// Manager downloads, lists, and deletes local attachment files.
type Manager struct {
	dir    string
	client Downloader
	log    *zap.Logger
}

// NewManager creates a Manager rooted at dir.
func NewManager(dir string, client Downloader, log *zap.Logger) *Manager {
	return &Manager{dir: dir, client: client, log: log}
}

// Download fetches an attachment and writes it under the card's
// directory, returning the absolute path of the stored file.
func (m *Manager) Download(ctx context.Context, cardID string, att trello.Attachment) (string, error) {
	name := safeName(att.Name)
	if name == "" {
		name = safeName(att.ID)
	}

	cardDir := filepath.Join(m.dir, safeName(cardID))
	if err := os.MkdirAll(cardDir, 0o755); err != nil {
		return "", fmt.Errorf("creating attachment directory: %w", err)
	}

	body, err := m.client.DownloadAttachment(ctx, att.URL)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	tmp, err := os.CreateTemp(cardDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("writing attachment: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("closing attachment file: %w", err)
	}

	target := filepath.Join(cardDir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("moving attachment into place: %w", err)
	}

	m.log.Info("attachment downloaded",
		zap.String("card", cardID),
		zap.String("file", target),
	)
	return target, nil
}

// List returns the filenames stored for a card. A card with no local
// attachments yields an empty list, not an error.
func (m *Manager) List(cardID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(m.dir, safeName(cardID)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing attachments: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".download-") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Delete removes one locally stored attachment file.
func (m *Manager) Delete(cardID, filename string) error {
	if filename != safeName(filename) || filename == "" {
		return fmt.Errorf("invalid attachment filename %q", filename)
	}
	path := filepath.Join(m.dir, safeName(cardID), filename)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}
	m.log.Info("attachment deleted",
		zap.String("card", cardID),
		zap.String("file", path),
	)
	return nil
}

// safeName flattens a name to a single path element so stored files can
// never escape the attachment directory.
func safeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.TrimLeft(name, ".")
	return name
}
