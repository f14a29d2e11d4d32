package acquire

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxLinkHops bounds symlink chains followed when resolving link targets.
const maxLinkHops = 8

// extractTarball unpacks a gzipped GitHub tarball into dest, dropping the
// single top-level directory GitHub wraps the tree in. Entries that would
// escape dest are rejected.
//
// Links are never created on disk. A symlink or hard link to a file becomes an
// empty regular file under the link's name, since the scan only reads names.
// A symlink that resolves to a directory inside the tree is dropped, matching
// how Scan treats directory symlinks in a cloned tree. Other special files are
// skipped.
func extractTarball(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	links := make(map[string]string)
	var linkOrder []string

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return placeLinks(dest, links, linkOrder)
		}
		if err != nil {
			return fmt.Errorf("read tarball: %w", err)
		}

		rel := stripTopDir(hdr.Name)
		if rel == "" {
			continue
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))
		if !within(dest, target) {
			return fmt.Errorf("tarball entry %q escapes destination", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			links[rel] = linkTarget(rel, hdr.Linkname)
			linkOrder = append(linkOrder, rel)
		case tar.TypeLink:
			// Hard links always name a regular file elsewhere in the archive.
			links[rel] = ""
			linkOrder = append(linkOrder, rel)
		}
	}
}

// linkTarget resolves a symlink's target to a slash path relative to the tree
// root. Absolute targets and targets leaving the tree resolve to "".
func linkTarget(rel, linkname string) string {
	if linkname == "" || path.IsAbs(filepath.ToSlash(linkname)) {
		return ""
	}
	t := path.Join(path.Dir(rel), filepath.ToSlash(linkname))
	if t == ".." || strings.HasPrefix(t, "../") {
		return ""
	}
	return t
}

// placeLinks runs after every regular entry is on disk so that link targets
// can be checked against the extracted tree.
func placeLinks(dest string, links map[string]string, order []string) error {
	for _, rel := range order {
		if isDirLink(dest, rel, links) {
			continue
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))
		if _, err := os.Lstat(target); err == nil {
			continue
		}
		if err := writeFile(target, strings.NewReader(""), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func isDirLink(dest, rel string, links map[string]string) bool {
	t, ok := links[rel]
	for hop := 0; ok && t != "" && hop < maxLinkHops; hop++ {
		if next, isLink := links[t]; isLink {
			t = next
			continue
		}
		info, err := os.Stat(filepath.Join(dest, filepath.FromSlash(t)))
		return err == nil && info.IsDir()
	}
	return false
}

func stripTopDir(name string) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	if i := strings.Index(name, "/"); i >= 0 {
		return strings.Trim(name[i+1:], "/")
	}
	return ""
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func writeFile(path string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0o644
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0o200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
