// Package files is the filesystem port of the catalog. All media, widget
// files, exports and temporary working directories live below one
// go-billy filesystem root.
package files

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/stacklok/toolhive-catalog/internal/domain"
)

// Top level directories below the repository root.
const (
	ItemsDir   = "items"
	WidgetsDir = "widgets"
	ExportsDir = "exports"
	TempDir    = "temp"

	ImagesDir = "images"
	ModelsDir = "models"
)

const defaultPerm = 0o755

// Repository reads and writes catalog files.
type Repository struct {
	fs billy.Filesystem
}

// New creates a Repository on the given filesystem.
func New(fs billy.Filesystem) *Repository {
	return &Repository{fs: fs}
}

// NewOS creates a Repository rooted at a directory of the native filesystem.
func NewOS(root string) *Repository {
	return New(osfs.New(root))
}

// NewInMemory creates a Repository backed by memory.
func NewInMemory() *Repository {
	return New(memfs.New())
}

// Raw returns the underlying go-billy filesystem.
//
//nolint:ireturn // exposes the adapter target
func (r *Repository) Raw() billy.Filesystem {
	return r.fs
}

// DirFromID shards an id into a relative directory ("abc/def/abcdefgh") so
// that no single directory grows unbounded.
func DirFromID(id string) string {
	if len(id) < 6 {
		return id
	}
	return path.Join(id[:3], id[3:6], id)
}

// ItemDir returns the media directory of an item.
func ItemDir(itemID string) string {
	return path.Join(ItemsDir, DirFromID(itemID))
}

// ItemImagesDir returns the image directory of an item.
func ItemImagesDir(itemID string) string {
	return path.Join(ItemDir(itemID), ImagesDir)
}

// ItemModelsDir returns the 3D model directory of an item.
func ItemModelsDir(itemID string) string {
	return path.Join(ItemDir(itemID), ModelsDir)
}

// WidgetDir returns the file directory of a widget.
func WidgetDir(widgetID string) string {
	return path.Join(WidgetsDir, DirFromID(widgetID))
}

// Exists reports whether p exists.
func (r *Repository) Exists(p string) (bool, error) {
	_, err := r.fs.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, domain.IOFault("stat "+p, err)
	}
}

// MkdirAll creates p and all missing parents.
func (r *Repository) MkdirAll(p string) error {
	if err := r.fs.MkdirAll(p, defaultPerm); err != nil {
		return domain.IOFault("mkdir "+p, err)
	}
	return nil
}

// ReadFile returns the content of p.
func (r *Repository) ReadFile(p string) ([]byte, error) {
	data, err := util.ReadFile(r.fs, p)
	if err != nil {
		return nil, domain.IOFault("read "+p, err)
	}
	return data, nil
}

// WriteFile writes data to p, creating parent directories.
func (r *Repository) WriteFile(p string, data []byte) error {
	if err := r.MkdirAll(path.Dir(p)); err != nil {
		return err
	}
	if err := util.WriteFile(r.fs, p, data, 0o644); err != nil {
		return domain.IOFault("write "+p, err)
	}
	return nil
}

// Open opens p for reading.
func (r *Repository) Open(p string) (billy.File, error) {
	f, err := r.fs.Open(p)
	if err != nil {
		return nil, domain.IOFault("open "+p, err)
	}
	return f, nil
}

// Create creates or truncates p, creating parent directories.
func (r *Repository) Create(p string) (billy.File, error) {
	if err := r.MkdirAll(path.Dir(p)); err != nil {
		return nil, err
	}
	f, err := r.fs.Create(p)
	if err != nil {
		return nil, domain.IOFault("create "+p, err)
	}
	return f, nil
}

// ReadDir lists the entries of p sorted by name.
func (r *Repository) ReadDir(p string) ([]os.FileInfo, error) {
	entries, err := r.fs.ReadDir(p)
	if err != nil {
		return nil, domain.IOFault("list "+p, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// CopyFile copies src to dst, creating parent directories of dst.
func (r *Repository) CopyFile(src, dst string) error {
	in, err := r.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := r.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return domain.IOFault(fmt.Sprintf("copy %s to %s", src, dst), err)
	}
	if err := out.Close(); err != nil {
		return domain.IOFault("close "+dst, err)
	}
	return nil
}

// CopyDir copies the tree below src into dst. A missing src copies nothing.
func (r *Repository) CopyDir(src, dst string) error {
	exists, err := r.Exists(src)
	if err != nil || !exists {
		return err
	}
	return r.walkFiles(src, func(rel string) error {
		return r.CopyFile(path.Join(src, rel), path.Join(dst, rel))
	})
}

// RemoveAll deletes p and everything below it.
func (r *Repository) RemoveAll(p string) error {
	if err := util.RemoveAll(r.fs, p); err != nil {
		return domain.IOFault("remove "+p, err)
	}
	return nil
}

// NewTempDir creates a fresh directory below TempDir.
func (r *Repository) NewTempDir(prefix string) (string, error) {
	dir := path.Join(TempDir, prefix+"-"+uuid.NewString())
	if err := r.MkdirAll(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// Pack writes every file below srcDir into a zip archive at archivePath.
// Entries are written in lexical order.
func (r *Repository) Pack(srcDir, archivePath string) error {
	var names []string
	if err := r.walkFiles(srcDir, func(rel string) error {
		names = append(names, rel)
		return nil
	}); err != nil {
		return err
	}
	sort.Strings(names)

	out, err := r.Create(archivePath)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(out)

	for _, name := range names {
		if err := r.addToArchive(zw, path.Join(srcDir, name), name); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		_ = out.Close()
		return domain.IOFault("finish archive "+archivePath, err)
	}
	if err := out.Close(); err != nil {
		return domain.IOFault("close "+archivePath, err)
	}
	return nil
}

func (r *Repository) addToArchive(zw *zip.Writer, src, name string) error {
	in, err := r.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return domain.IOFault("add "+name, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return domain.IOFault("add "+name, err)
	}
	return nil
}

// Unpack extracts the zip archive at archivePath into dstDir.
// Entries escaping dstDir are rejected.
func (r *Repository) Unpack(archivePath, dstDir string) error {
	in, err := r.Open(archivePath)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := r.fs.Stat(archivePath)
	if err != nil {
		return domain.IOFault("stat "+archivePath, err)
	}

	zr, err := zip.NewReader(in, info.Size())
	if err != nil {
		return domain.IOFault("read archive "+archivePath, err)
	}

	for _, entry := range zr.File {
		name, err := entryName(entry.Name)
		if err != nil {
			return err
		}
		if entry.FileInfo().IsDir() {
			if err := r.MkdirAll(path.Join(dstDir, name)); err != nil {
				return err
			}
			continue
		}
		if err := r.extract(entry, path.Join(dstDir, name)); err != nil {
			return err
		}
	}
	return nil
}

func entryName(name string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || path.IsAbs(cleaned) {
		return "", domain.IOFault("unpack", fmt.Errorf("archive entry %q escapes the target directory", name))
	}
	return cleaned, nil
}

func (r *Repository) extract(entry *zip.File, dst string) error {
	rc, err := entry.Open()
	if err != nil {
		return domain.IOFault("unpack "+entry.Name, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := r.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return domain.IOFault("unpack "+entry.Name, err)
	}
	if err := out.Close(); err != nil {
		return domain.IOFault("close "+dst, err)
	}
	return nil
}

// walkFiles calls fn with the slash-separated path, relative to root, of every regular file below root.
func (r *Repository) walkFiles(root string, fn func(rel string) error) error {
	err := util.Walk(r.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel))
	})
	if err != nil {
		if domain.IsKind(err, domain.KindIO) {
			return err
		}
		return domain.IOFault("walk "+root, err)
	}
	return nil
}
