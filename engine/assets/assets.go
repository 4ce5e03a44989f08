// Package assets indexes an asset directory, watches it for changes and
// loads files through a loader chosen by extension.
package assets

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/graphpunk/engine/assets/loaders"
	"github.com/spaghettifunk/graphpunk/engine/core"
)

var (
	ErrClosed        = errors.New("asset manager already closed")
	ErrAssetNotFound = errors.New("asset not found")
	ErrNoLoader      = errors.New("no loader registered for asset type")
)

type AssetInfo struct {
	// Path is relative to the asset root, with forward slashes.
	Path       string
	Type       loaders.ResourceType
	LastLoaded time.Time
	Modified   time.Time
}

type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[loaders.ResourceType]Loader
	changes []string

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[loaders.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	am.RegisterLoader(loaders.ResourceTypeText, &loaders.TextLoader{})
	am.RegisterLoader(loaders.ResourceTypeShader, &loaders.ShaderLoader{})
	am.RegisterLoader(loaders.ResourceTypeImage, &loaders.ImageLoader{})
	am.RegisterLoader(loaders.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})
	am.RegisterLoader(loaders.ResourceTypeSystemFont, &loaders.SystemFontLoader{})
	return am, nil
}

// Initialize indexes assetsDir and starts watching it and every directory
// below it.
func (am *AssetManager) Initialize(assetsDir string) error {
	if am.isClosed {
		return ErrClosed
	}
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.root = root

	if err := am.watchRecursive(root, false); err != nil {
		return err
	}

	am.wg.Add(1)
	go am.start()

	core.LogInfo("asset manager watching %s (%d assets)", root, am.Len())
	return nil
}

func (am *AssetManager) Root() string {
	return am.root
}

// RegisterLoader sets the loader used for assetType, replacing the default.
func (am *AssetManager) RegisterLoader(assetType loaders.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	am.loaders[assetType] = loader
}

// Load reads an indexed asset. path is relative to the asset root.
func (am *AssetManager) Load(path string) (*loaders.Resource, error) {
	path = filepath.ToSlash(path)

	am.mutex.Lock()
	asset, exists := am.assets[path]
	if !exists {
		am.mutex.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
	}
	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		am.mutex.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, asset.Type)
	}
	asset.LastLoaded = time.Now()
	am.assets[path] = asset
	am.mutex.Unlock()

	res, err := loader.Load(filepath.Join(am.root, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	res.Name = path
	return res, nil
}

// Unload hands a resource back to its loader.
func (am *AssetManager) Unload(res *loaders.Resource) error {
	am.mutex.RLock()
	loader, ok := am.loaders[res.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoLoader, res.Type)
	}
	return loader.Unload(res)
}

// Lookup returns the index entry for path.
func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	a, ok := am.assets[filepath.ToSlash(path)]
	return a, ok
}

// Assets returns the indexed paths of assetType, sorted.
func (am *AssetManager) Assets(assetType loaders.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var out []string
	for _, p := range slices.Sorted(maps.Keys(am.assets)) {
		if am.assets[p].Type == assetType {
			out = append(out, p)
		}
	}
	return out
}

func (am *AssetManager) Len() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	return len(am.assets)
}

// Changes returns the paths created or written since the previous call, in
// the order they were seen, without duplicates.
func (am *AssetManager) Changes() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	out := am.changes
	am.changes = nil
	return out
}

// Close stops the watcher. It is safe to call more than once.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	am.wg.Wait()
	return am.fsnotify.Close()
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %v", err)

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Op.Has(fsnotify.Create) {
			if err := am.watchRecursive(e.Name, false); err != nil {
				core.LogWarn("watching %s: %v", e.Name, err)
			}
		}
		return
	}
	// Create or modify
	if e.Op.Has(fsnotify.Create) || e.Op.Has(fsnotify.Write) {
		if path, ok := am.handleFileEvent(e.Name); ok {
			am.recordChange(path)
		}
	}
	// A deleted entry cannot be stat'ed, so it may have been a file or a
	// directory. Drop it from both the index and the watch list.
	if e.Op.Has(fsnotify.Remove) || e.Op.Has(fsnotify.Rename) {
		am.removeAsset(e.Name)
		_ = am.fsnotify.Remove(e.Name)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found on the way.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// handleFileEvent indexes a created or modified file and returns its
// relative path.
func (am *AssetManager) handleFileEvent(fullPath string) (string, bool) {
	assetType := DetermineAssetType(fullPath)
	if assetType == loaders.ResourceTypeNone {
		return "", false
	}
	path, ok := am.relative(fullPath)
	if !ok {
		return "", false
	}
	modified := time.Now()
	if fi, err := os.Stat(fullPath); err == nil {
		modified = fi.ModTime()
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	info := am.assets[path]
	info.Path = path
	info.Type = assetType
	info.Modified = modified
	am.assets[path] = info
	return path, true
}

func (am *AssetManager) recordChange(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if !slices.Contains(am.changes, path) {
		am.changes = append(am.changes, path)
	}
}

// removeAsset drops fullPath, and everything below it when it was a
// directory, from the index.
func (am *AssetManager) removeAsset(fullPath string) {
	path, ok := am.relative(fullPath)
	if !ok {
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
	prefix := path + "/"
	for p := range am.assets {
		if strings.HasPrefix(p, prefix) {
			delete(am.assets, p)
		}
	}
}

func (am *AssetManager) relative(fullPath string) (string, bool) {
	rel, err := filepath.Rel(am.root, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// DetermineAssetType maps a file extension to the loader that handles it.
func DetermineAssetType(path string) loaders.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glsl":
		return loaders.ResourceTypeShader
	case ".png", ".jpg", ".jpeg", ".bmp", ".webp":
		return loaders.ResourceTypeImage
	case ".fnt":
		return loaders.ResourceTypeBitmapFont
	case ".ttf", ".otf":
		return loaders.ResourceTypeSystemFont
	case ".txt", ".toml":
		return loaders.ResourceTypeText
	default:
		return loaders.ResourceTypeNone
	}
}
