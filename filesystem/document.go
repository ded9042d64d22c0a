// server/filesystem/document.go
package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const docExt = ".yaml"

func docPath(dir, id string) string {
	return filepath.Join(dir, id+docExt)
}

func readDoc[T any](path string) (T, error) {
	var doc T
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// writeDoc encodes doc next to its final path and renames it into place so
// readers never observe a half-written document.
func writeDoc(path string, doc any) error {
	tmp, err := stageDoc(path, doc)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// stageDoc writes doc to a temp file beside path and returns its name.
func stageDoc(path string, doc any) (string, error) {
	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	encoder.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

type pendingDoc struct {
	path string
	doc  any
}

// writeDocs stages every document before renaming any of them, so an encode
// or write failure leaves all targets as they were.
func writeDocs(docs []pendingDoc) error {
	staged := make([]string, 0, len(docs))
	for _, d := range docs {
		tmp, err := stageDoc(d.path, d.doc)
		if err != nil {
			for _, name := range staged {
				os.Remove(name)
			}
			return fmt.Errorf("write %s: %w", filepath.Base(d.path), err)
		}
		staged = append(staged, tmp)
	}
	for i, d := range docs {
		if err := os.Rename(staged[i], d.path); err != nil {
			for _, name := range staged[i:] {
				os.Remove(name)
			}
			return fmt.Errorf("write %s: %w", filepath.Base(d.path), err)
		}
	}
	return nil
}

func listDocs[T any](dir string) ([]T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	docs := make([]T, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !strings.HasSuffix(entry.Name(), docExt) {
			continue
		}
		doc, err := readDoc[T](filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func docExists(dir, id string) (bool, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return false, nil
	}
	_, err := os.Stat(docPath(dir, id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
