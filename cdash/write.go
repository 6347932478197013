package cdash

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/polaris-ci/polaris-cdash/model"
)

// Encode writes v as an XML document, preceded by the XML declaration. With
// FormatIndented every nested element goes on its own line indented by tabs.
func Encode(w io.Writer, v any, format model.Format) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	if format == model.FormatIndented {
		enc.Indent("", "\t")
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile encodes v and replaces the contents of path with the result. The
// document is fully encoded before the file is touched.
func WriteFile(path string, v any, format model.Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, v, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
