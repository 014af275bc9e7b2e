package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"bitbucket.org/kleinnic74/photomap/consts"
	"bitbucket.org/kleinnic74/photomap/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxPhotoSize is the largest photo accepted by Create
const MaxPhotoSize = 64 << 20

// Album is a Library keeping every photo as a file named after its id in a
// single directory. Files removed from the directory by other means simply
// disappear from the album.
type Album struct {
	name string
	dir  string

	// metadata of files already inspected, by file name
	lock  sync.Mutex
	cache map[string]cachedAsset
}

type cachedAsset struct {
	modTime time.Time
	asset   Asset
}

// OpenAlbum opens the album stored in dir, creating the directory if needed
func OpenAlbum(dir, name string) (*Album, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create album directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Album{
		name:  name,
		dir:   abs,
		cache: make(map[string]cachedAsset),
	}, nil
}

func (a *Album) Name() string {
	return a.name
}

func (a *Album) Dir() string {
	return a.dir
}

// Create stores the photo read from content as a new asset
func (a *Album) Create(ctx context.Context, content io.Reader) (*Asset, error) {
	logger, ctx := logging.SubFrom(ctx, "album")
	data, err := io.ReadAll(io.LimitReader(content, MaxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(data) > MaxPhotoSize {
		return nil, fmt.Errorf("photo exceeds %d bytes", MaxPhotoSize)
	}
	format, err := FormatOf(data)
	if err != nil {
		return nil, err
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %s content does not decode: %v", ErrUnsupportedFormat, format.Ext, err)
	}
	created, hasExif := takenAt(data)
	if !hasExif {
		created = time.Now()
	}

	id := uuid.New().String()
	filename := id + "." + format.Ext
	path := filepath.Join(a.dir, filename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return nil, fmt.Errorf("write photo: %w", err)
	}
	// the file time stands in for the creation time when there is no EXIF
	if err := os.Chtimes(tmp, created, created); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("store photo: %w", err)
	}
	asset, err := a.inspect(filename)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	logger.Info("Photo created", zap.String("id", asset.ID), zap.String("format", format.Ext), zap.Bool("exif", hasExif))
	return asset, nil
}

// Get returns the asset with the given id
func (a *Album) Get(ctx context.Context, id string) (*Asset, error) {
	filename, err := a.find(id)
	if err != nil {
		return nil, err
	}
	return a.inspect(filename)
}

// List returns the photos of the album ordered by creation time
func (a *Album) List(ctx context.Context, o ListOptions) ([]*Asset, error) {
	filenames, err := a.filenames()
	if err != nil {
		return nil, err
	}
	assets := make([]*Asset, 0, len(filenames))
	for _, f := range filenames {
		asset, err := a.inspect(f)
		if err != nil {
			logging.From(ctx).Named("album").Warn("Skipping unreadable photo", zap.String("file", f), zap.Error(err))
			continue
		}
		assets = append(assets, asset)
	}
	sort.SliceStable(assets, func(i, j int) bool {
		ti, tj := assets[i].CreationTime, assets[j].CreationTime
		if o.Order == consts.Descending {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
	if o.First > 0 && len(assets) > o.First {
		assets = assets[:o.First]
	}
	return assets, nil
}

// IDs returns the ids of all photos of the album
func (a *Album) IDs(ctx context.Context) (map[string]struct{}, error) {
	filenames, err := a.filenames()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(filenames))
	for _, f := range filenames {
		ids[idOf(f)] = struct{}{}
	}
	return ids, nil
}

// Delete removes the given photos. Unknown ids do not prevent the deletion
// of the others, the first of them is reported as ErrNotFound.
func (a *Album) Delete(ctx context.Context, ids []string) error {
	logger, _ := logging.SubFrom(ctx, "album")
	var firstErr error
	for _, id := range ids {
		filename, err := a.find(id)
		if err == nil {
			err = os.Remove(filepath.Join(a.dir, filename))
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		a.lock.Lock()
		delete(a.cache, filename)
		a.lock.Unlock()
		logger.Info("Photo deleted", zap.String("id", id))
	}
	return firstErr
}

// Open returns the content of a photo, the caller must close it
func (a *Album) Open(ctx context.Context, id string) (io.ReadCloser, *Asset, error) {
	filename, err := a.find(id)
	if err != nil {
		return nil, nil, err
	}
	asset, err := a.inspect(filename)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(a.dir, filename))
	if os.IsNotExist(err) {
		return nil, nil, NotFound(id)
	}
	if err != nil {
		return nil, nil, err
	}
	return f, asset, nil
}

// Thumb returns a scaled down version of a photo
func (a *Album) Thumb(ctx context.Context, id string, size ThumbSize) (image.Image, error) {
	in, _, err := a.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	img, _, err := image.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decode photo %s: %w", id, err)
	}
	return createThumb(img, size), nil
}

func (a *Album) find(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", NotFound(id)
	}
	for ext := range formatsByExt {
		filename := id + "." + ext
		if _, err := os.Stat(filepath.Join(a.dir, filename)); err == nil {
			return filename, nil
		}
	}
	return "", NotFound(id)
}

func (a *Album) filenames() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("read album: %w", err)
	}
	var filenames []string
	for _, e := range entries {
		if e.IsDir() || !isAssetFile(e.Name()) {
			continue
		}
		filenames = append(filenames, e.Name())
	}
	return filenames, nil
}

func isAssetFile(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if _, found := FormatForExt(ext); !found {
		return false
	}
	_, err := uuid.Parse(idOf(name))
	return err == nil
}

func idOf(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func (a *Album) inspect(filename string) (*Asset, error) {
	path := filepath.Join(a.dir, filename)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, NotFound(idOf(filename))
	}
	if err != nil {
		return nil, err
	}

	a.lock.Lock()
	cached, found := a.cache[filename]
	a.lock.Unlock()
	if found && cached.modTime.Equal(info.ModTime()) {
		asset := cached.asset
		return &asset, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format, err := FormatOf(data)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	created, ok := takenAt(data)
	if !ok {
		created = info.ModTime()
	}
	asset := Asset{
		ID:           idOf(filename),
		URI:          "file://" + filepath.ToSlash(path),
		Filename:     filename,
		MediaType:    Photo,
		Mime:         format.Mime,
		CreationTime: created,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Size:         info.Size(),
	}
	a.lock.Lock()
	a.cache[filename] = cachedAsset{modTime: info.ModTime(), asset: asset}
	a.lock.Unlock()
	return &asset, nil
}
