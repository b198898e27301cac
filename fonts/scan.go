package fonts

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"
)

// SystemDirs lists the usual font locations on Linux and macOS.
func SystemDirs() []string {
	dirs := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/Library/Fonts",
		"/System/Library/Fonts",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
			filepath.Join(home, "Library", "Fonts"),
		)
	}
	return dirs
}

type face struct {
	family string
	style  string
	path   string
}

// Scan walks dirs for .ttf and .otf files and reads family and style from
// each file's name table. Missing directories and unreadable fonts are
// skipped.
func Scan(ctx context.Context, dirs ...string) (*Table, error) {
	var paths []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return skipUnreadable(path, d, err)
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".ttf", ".otf":
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			logrus.WithError(err).WithField("dir", dir).Warn("Failed to scan font directory")
		}
	}

	faces := make([]*face, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := readFace(path)
			if err != nil {
				logrus.WithError(err).WithField("path", path).Warn("Skipping invalid font")
				return nil
			}
			faces[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := NewTable()
	for _, f := range faces {
		if f == nil {
			continue
		}
		t.Add(f.family, f.style, f.path)
		logrus.WithFields(logrus.Fields{"family": f.family, "style": f.style, "path": f.path}).Debug("Added font")
	}
	logrus.WithFields(logrus.Fields{"files": len(paths), "faces": t.Len()}).Info("Scanned fonts")
	return t, nil
}

// skipUnreadable keeps a walk going past entries it cannot read, so one
// locked directory does not hide the fonts after it.
func skipUnreadable(path string, d fs.DirEntry, err error) error {
	if !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).WithField("path", path).Warn("Skipping unreadable font path")
	}
	if d == nil || d.IsDir() {
		return fs.SkipDir
	}
	return nil
}

func readFace(path string) (*face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	family, err := name(f, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
	if err != nil {
		return nil, err
	}
	style, err := name(f, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
	if err != nil {
		return nil, err
	}
	return &face{family: family, style: style, path: path}, nil
}

// name returns the first non-empty name record among ids.
func name(f *sfnt.Font, ids ...sfnt.NameID) (string, error) {
	var buf sfnt.Buffer
	err := sfnt.ErrNotFound
	for _, id := range ids {
		var s string
		s, err = f.Name(&buf, id)
		if err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), nil
		}
	}
	if err == nil {
		err = sfnt.ErrNotFound
	}
	return "", err
}
