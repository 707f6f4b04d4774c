package settings

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SidecarExtension is appended to the solution path to name the settings file
const SidecarExtension = ".slm"

const documentElement = "SolutionLoadInfo"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SidecarPath returns the settings file that belongs to a solution
func SidecarPath(solutionPath string) string {
	return solutionPath + SidecarExtension
}

// LoadDocument reads a sidecar file
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument parses sidecar XML from a reader
func ParseDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings XML: %w", err)
	}
	// Files written by Windows tools usually start with a BOM
	data = bytes.TrimPrefix(data, utf8BOM)

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to parse settings XML: no %s element", documentElement)
			}
			return nil, fmt.Errorf("failed to parse settings XML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != documentElement {
			return nil, fmt.Errorf("failed to parse settings XML: unexpected root element <%s>", start.Name.Local)
		}

		var doc Document
		if err := decoder.DecodeElement(&doc, &start); err != nil {
			return nil, fmt.Errorf("failed to parse settings XML: %w", err)
		}
		return &doc, nil
	}
}

// SaveDocument writes a sidecar file. The content goes to a temporary file
// that is renamed over path, so readers never see a half-written file.
func SaveDocument(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, doc); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

// WriteDocument writes sidecar XML to a writer
func WriteDocument(w io.Writer, doc *Document) error {
	if doc == nil {
		return errors.New("settings document is nil")
	}

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	start := xml.StartElement{Name: xml.Name{Local: documentElement}}
	if err := encoder.EncodeElement(doc, start); err != nil {
		return fmt.Errorf("failed to encode settings XML: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return err
	}

	_, err := w.Write([]byte("\n"))
	return err
}
